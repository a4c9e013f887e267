package http

import (
	"net/url"
	"testing"
	"time"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2025, 8, 23, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
	}{
		{name: "defaults to current month", query: "", wantYear: 2025, wantMonth: 8},
		{name: "explicit year and month", query: "year=2024&month=2", wantYear: 2024, wantMonth: 2},
		{name: "only month", query: "month=1", wantYear: 2025, wantMonth: 1},
		{name: "non-numeric values keep defaults", query: "year=abc&month=xyz", wantYear: 2025, wantMonth: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery() error = %v", err)
			}
			params := parseMonthParams(query, now)
			if params.Year != tt.wantYear || params.Month != tt.wantMonth {
				t.Errorf("parseMonthParams() = %d/%d, want %d/%d",
					params.Year, params.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestMonthParams_Valid(t *testing.T) {
	tests := []struct {
		params MonthParams
		want   bool
	}{
		{MonthParams{Year: 2025, Month: 8}, true},
		{MonthParams{Year: 2025, Month: 1}, true},
		{MonthParams{Year: 2025, Month: 12}, true},
		{MonthParams{Year: 2025, Month: 0}, false},
		{MonthParams{Year: 2025, Month: 13}, false},
		{MonthParams{Year: 0, Month: 8}, false},
	}
	for _, tt := range tests {
		if got := tt.params.Valid(); got != tt.want {
			t.Errorf("MonthParams%+v.Valid() = %v, want %v", tt.params, got, tt.want)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	query := url.Values{"months": {"6"}, "zero": {"0"}, "junk": {"abc"}}

	if got := parseIntParam(query, "months", 12); got != 6 {
		t.Errorf("parseIntParam(months) = %d, want 6", got)
	}
	if got := parseIntParam(query, "missing", 12); got != 12 {
		t.Errorf("parseIntParam(missing) = %d, want default 12", got)
	}
	if got := parseIntParam(query, "zero", 12); got != 12 {
		t.Errorf("parseIntParam(zero) = %d, want default 12", got)
	}
	if got := parseIntParam(query, "junk", 12); got != 12 {
		t.Errorf("parseIntParam(junk) = %d, want default 12", got)
	}
}

func TestParseFloatParam(t *testing.T) {
	query := url.Values{"threshold": {"2.5"}, "negative": {"-1"}}

	if got := parseFloatParam(query, "threshold", 2.0); got != 2.5 {
		t.Errorf("parseFloatParam(threshold) = %v, want 2.5", got)
	}
	if got := parseFloatParam(query, "missing", 2.0); got != 2.0 {
		t.Errorf("parseFloatParam(missing) = %v, want default 2.0", got)
	}
	if got := parseFloatParam(query, "negative", 2.0); got != 2.0 {
		t.Errorf("parseFloatParam(negative) = %v, want default 2.0", got)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		path     string
		wantID   int64
		wantTail string
		wantOK   bool
	}{
		{path: "/api/transactions/42", wantID: 42, wantTail: "", wantOK: true},
		{path: "/api/transactions/42/status", wantID: 42, wantTail: "status", wantOK: true},
		{path: "/api/transactions/42/", wantID: 42, wantTail: "", wantOK: true},
		{path: "/api/transactions/", wantOK: false},
		{path: "/api/transactions/abc", wantOK: false},
		{path: "/api/transactions/0", wantOK: false},
		{path: "/api/transactions/-5", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, tail, ok := pathID(tt.path, "/api/transactions/")
			if ok != tt.wantOK {
				t.Fatalf("pathID() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if id != tt.wantID || tail != tt.wantTail {
				t.Errorf("pathID() = %d, %q, want %d, %q", id, tail, tt.wantID, tt.wantTail)
			}
		})
	}
}
