package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"fintrack/internal/core"
)

const (
	// DefaultAnomalyThreshold is the z-score above which a transaction is
	// flagged.
	DefaultAnomalyThreshold = 2.0

	// minAnomalySample is the per-category transaction floor; smaller
	// samples are excluded entirely.
	minAnomalySample = 5

	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Anomaly is a transaction whose amount sits unusually far from its
// category's mean.
type Anomaly struct {
	TransactionID int64      `json:"transaction_id"`
	Date          core.Date  `json:"date"`
	Description   string     `json:"description"`
	Amount        core.Money `json:"amount"`
	Category      string     `json:"category"`
	ZScore        float64    `json:"z_score"`
	Severity      string     `json:"severity"` // "high" above z 3, else "medium"
}

// DetectAnomalies scans the trailing 180 days and flags transactions whose
// z-score exceeds the threshold, sorted by z-score descending (stable).
// Categories with fewer than 5 transactions in the window are skipped.
func (e *Engine) DetectAnomalies(ctx context.Context, threshold float64) ([]Anomaly, error) {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}

	end := e.now()
	start := end.AddDate(0, 0, -180)

	transactions, err := e.store.ListTransactions(ctx,
		core.NewDate(start.Year(), int(start.Month()), start.Day()),
		core.NewDate(end.Year(), int(end.Month()), end.Day()))
	if err != nil {
		return nil, fmt.Errorf("list transactions for anomalies: %w", err)
	}

	// Group per category, preserving encounter order on both levels so
	// ties in the final sort stay deterministic.
	var order []string
	byCategory := make(map[string][]core.Transaction)
	for _, t := range transactions {
		if _, seen := byCategory[t.Category]; !seen {
			order = append(order, t.Category)
		}
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	var anomalies []Anomaly
	for _, category := range order {
		group := byCategory[category]
		if len(group) < minAnomalySample {
			continue
		}

		mean, std := meanStddev(group)
		for _, t := range group {
			var z float64
			if std > 0 {
				z = math.Abs(t.Amount.Units()-mean) / std
			}
			if z <= threshold {
				continue
			}

			severity := SeverityMedium
			if z > 3 {
				severity = SeverityHigh
			}
			anomalies = append(anomalies, Anomaly{
				TransactionID: t.ID,
				Date:          t.Date,
				Description:   t.Description,
				Amount:        t.Amount,
				Category:      t.Category,
				ZScore:        z,
				Severity:      severity,
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})

	return anomalies, nil
}

// meanStddev returns the mean and sample standard deviation (n-1 divisor,
// Bessel's correction) of the group's amounts in currency units.
func meanStddev(group []core.Transaction) (mean, std float64) {
	n := float64(len(group))
	for _, t := range group {
		mean += t.Amount.Units()
	}
	mean /= n

	if len(group) < 2 {
		return mean, 0
	}
	var sumSq float64
	for _, t := range group {
		d := t.Amount.Units() - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / (n - 1))
}
