package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// parseMonthParams extracts year and month from query parameters, defaulting
// to the current date.
func parseMonthParams(query url.Values, now time.Time) MonthParams {
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			params.Month = m
		}
	}
	return params
}

// Valid reports whether the parameters name a real calendar month.
func (p MonthParams) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 1
}

// parseIntParam reads an optional positive integer query parameter.
func parseIntParam(query url.Values, key string, defaultValue int) int {
	if v := strings.TrimSpace(query.Get(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultValue
}

// parseFloatParam reads an optional positive float query parameter.
func parseFloatParam(query url.Values, key string, defaultValue float64) float64 {
	if v := strings.TrimSpace(query.Get(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

// pathID extracts the numeric ID from a path like /api/transactions/42 or
// /api/transactions/42/status, returning the trailing segments too.
func pathID(path, prefix string) (int64, string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return 0, "", false
	}
	idPart, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id < 1 {
		return 0, "", false
	}
	return id, tail, true
}
