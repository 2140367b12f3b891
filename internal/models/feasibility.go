package models

import "time"

type Band string

const (
	BandFeasible Band = "feasible"
	BandStrained Band = "strained"
	BandAtRisk   Band = "at_risk"
)

func (b Band) IsValid() bool {
	switch b {
	case BandFeasible, BandStrained, BandAtRisk:
		return true
	}
	return false
}

// FeasibilityFactor — одно сработавшее правило скоринга.
// Impact отрицательный для штрафов.
type FeasibilityFactor struct {
	Key         string `json:"key"`
	Impact      int    `json:"impact"`
	Description string `json:"description"`
}

// TimetableFeasibility — оценка недели; уникальна по (student_id, week_start),
// пересчёт перезаписывает запись (upsert), не накапливает.
type TimetableFeasibility struct {
	ID        int64               `db:"id" json:"-"`
	StudentID int64               `db:"student_id" json:"student_id"`
	WeekStart time.Time           `db:"week_start" json:"week_start"`
	Score     int                 `db:"score" json:"score"`
	Band      Band                `db:"band" json:"band"`
	Factors   []FeasibilityFactor `db:"factors" json:"factors"`
	CreatedAt time.Time           `db:"created_at" json:"-"`
}
