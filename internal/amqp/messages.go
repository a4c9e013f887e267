package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report types the worker knows how to render.
const (
	ReportMonthly    = "monthly"
	ReportProjection = "projection"
)

// ExportJobMessage asks the worker to render one report. The worker re-reads
// store data itself, so the message carries only the report type, the month
// coordinates (ignored by projection reports) and a job ID for tracing.
type ExportJobMessage struct {
	JobID       string    `json:"job_id"`
	Type        string    `json:"type"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewExportJobMessage creates an export job with a fresh ID.
func NewExportJobMessage(reportType string, year, month int) *ExportJobMessage {
	return &ExportJobMessage{
		JobID:       uuid.NewString(),
		Type:        reportType,
		Year:        year,
		Month:       month,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportJobMessageFromJSON creates a message from JSON bytes.
func ExportJobMessageFromJSON(data []byte) (*ExportJobMessage, error) {
	var msg ExportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
