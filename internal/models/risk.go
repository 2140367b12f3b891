package models

import "time"

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// AttendanceViabilityRisk — прогнозный сигнал «посещаемость под угрозой».
// У студента одновременно активна максимум одна запись: перед возможным
// созданием новой все прежние деактивируются.
type AttendanceViabilityRisk struct {
	ID             int64      `db:"id" json:"-"`
	StudentID      int64      `db:"student_id" json:"student_id"`
	WeeksToRisk    int        `db:"weeks_to_risk" json:"weeks_to_risk"`
	Confidence     Confidence `db:"confidence" json:"confidence"`
	Reasons        []string   `db:"reasons" json:"reasons"`
	Recommendation string     `db:"recommendation" json:"recommendation,omitempty"`
	Active         bool       `db:"active" json:"active"`
	CreatedAt      time.Time  `db:"created_at" json:"-"`
}
