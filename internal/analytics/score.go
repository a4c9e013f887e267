package analytics

import (
	"context"
	"fmt"
)

// Score is a heuristic financial health rating in [0, 100] with one
// explanation string per contributing factor, in evaluation order.
type Score struct {
	Value   int      `json:"value"`
	Factors []string `json:"factors"`
}

// FinancialScore rates the current month on three factors: savings rate
// (max 40), expense diversification (max 30) and tracking consistency
// (max 30). A month with no data scores 0 with an explanatory factor.
func (e *Engine) FinancialScore(ctx context.Context) (Score, error) {
	now := e.now()
	insights, err := e.CategoryInsights(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return Score{}, fmt.Errorf("insights for score: %w", err)
	}
	if insights == nil {
		return Score{Value: 0, Factors: []string{"Insufficient data"}}, nil
	}

	var score int
	var factors []string

	switch rate := insights.SavingsRate; {
	case rate >= 20:
		score += 40
		factors = append(factors, "Excellent savings rate")
	case rate >= 10:
		score += 30
		factors = append(factors, "Good savings rate")
	case rate >= 0:
		score += 20
		factors = append(factors, "Low savings rate")
	default:
		factors = append(factors, "Spending more than you earn")
	}

	switch categories := len(insights.ExpenseDistribution); {
	case categories >= 5:
		score += 30
		factors = append(factors, "Well diversified spending")
	case categories >= 3:
		score += 20
		factors = append(factors, "Moderately diversified spending")
	default:
		score += 10
		factors = append(factors, "Few spending categories recorded")
	}

	switch count := insights.TransactionCount; {
	case count >= 20:
		score += 30
		factors = append(factors, "Consistent transaction tracking")
	case count >= 10:
		score += 20
		factors = append(factors, "Moderate transaction tracking")
	default:
		score += 10
		factors = append(factors, "Few transactions recorded")
	}

	if score > 100 {
		score = 100
	}

	return Score{Value: score, Factors: factors}, nil
}
