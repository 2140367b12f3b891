package timetable

import (
	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/models"
)

// ProjectionInput — всё, что нужно проектору риска: свежая оценка недели,
// свежий список конфликтов и последние недельные оценки по убыванию недели
// (History[0] — текущая).
type ProjectionInput struct {
	Feasibility models.TimetableFeasibility
	Conflicts   []models.CalendarConflict
	History     []models.TimetableFeasibility
}

// RiskDecision — решение «завести активный риск»; nil — риска нет.
type RiskDecision struct {
	WeeksToRisk    int
	Confidence     models.Confidence
	Reasons        []string
	Recommendation string
}

const (
	reasonBelowThreshold  = "feasibility below sustainable threshold"
	reasonDecliningTrend  = "feasibility declining week-on-week"
	reasonHighConflicts   = "multiple high-severity conflicts"
	reasonClassWorkClash  = "class and work commitments overlap in the weekly schedule"
	recommendUrgent       = "schedule is not sustainable: intervene within 1 week to rebalance mandatory sessions and work shifts"
	recommendResolveClash = "resolve the class/work overlap with the student before attendance starts slipping"
	recommendMonitor      = "monitor the schedule over the next 2-3 weeks and re-run the analysis after any timetable change"
)

// DecliningTrend: последняя оценка ниже предыдущей И (точек меньше трёх ИЛИ
// предыдущая ниже позапрошлой) — т.е. либо две точки вниз, либо монотонно
// убывающее окно из трёх.
func DecliningTrend(history []models.TimetableFeasibility) bool {
	if len(history) < 2 {
		return false
	}
	if history[0].Score >= history[1].Score {
		return false
	}
	return len(history) < 3 || history[1].Score < history[2].Score
}

// ProjectRisk — таблица решений прогноза срыва посещаемости.
// Ветки для strained независимы: обе могут сработать, причины обеих
// сохраняются. Дополнительные причины добавляются к любой сработавшей ветке.
func ProjectRisk(in ProjectionInput, th config.Thresholds) *RiskDecision {
	var d *RiskDecision

	switch in.Feasibility.Band {
	case models.BandAtRisk:
		d = &RiskDecision{
			WeeksToRisk: 1,
			Confidence:  models.ConfidenceHigh,
			Reasons:     []string{reasonBelowThreshold},
		}
	case models.BandStrained:
		if DecliningTrend(in.History) {
			d = &RiskDecision{
				WeeksToRisk: 2,
				Confidence:  models.ConfidenceMedium,
				Reasons:     []string{reasonDecliningTrend},
			}
		}
		if countHighConflicts(in.Conflicts) >= th.HighConflictsForRisk {
			if d == nil {
				d = &RiskDecision{
					WeeksToRisk: 2,
					Confidence:  models.ConfidenceMedium,
				}
			}
			d.Reasons = append(d.Reasons, reasonHighConflicts)
		}
	}
	if d == nil {
		return nil
	}

	for _, f := range in.Feasibility.Factors {
		if f.Impact <= th.MajorFactorImpact {
			d.Reasons = append(d.Reasons, f.Description)
		}
	}
	if hasOverlapConflict(in.Conflicts) {
		d.Reasons = append(d.Reasons, reasonClassWorkClash)
	}

	switch {
	case in.Feasibility.Band == models.BandAtRisk:
		d.Recommendation = recommendUrgent
	case hasOverlapConflict(in.Conflicts):
		d.Recommendation = recommendResolveClash
	default:
		d.Recommendation = recommendMonitor
	}
	return d
}

func countHighConflicts(conflicts []models.CalendarConflict) int {
	n := 0
	for _, c := range conflicts {
		if c.Severity == models.SeverityHigh {
			n++
		}
	}
	return n
}

func hasOverlapConflict(conflicts []models.CalendarConflict) bool {
	for _, c := range conflicts {
		if c.Type == models.ConflictClassWorkOverlap {
			return true
		}
	}
	return false
}
