package timetable

import (
	"fmt"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/models"
)

// ScoreWeek применяет взвешенную модель штрафов к недельному календарю.
// База 100, штрафы суммируются без ограничений, итог зажимается в [0,100]
// только в конце. Пороги скоринга и детектора конфликтов намеренно не
// сверяются друг с другом: конфликты — для показа, факторы — для балла.
func ScoreWeek(s *models.WeeklyCalendarSummary, th config.Thresholds) (int, models.Band, []models.FeasibilityFactor) {
	days := s.DayEvents()
	var factors []models.FeasibilityFactor

	add := func(key string, impact int, desc string) {
		factors = append(factors, models.FeasibilityFactor{Key: key, Impact: impact, Description: desc})
	}

	heavyRun := 0
	maxHeavyRun := 0

	for _, dow := range mondayFirst {
		evs := append([]models.CalendarEvent(nil), days[dow]...)
		sortEvents(evs)
		day := dayName(dow)

		var mandatory, total float64
		for _, e := range evs {
			total += e.Hours()
			if e.Mandatory {
				mandatory += e.Hours()
			}
		}

		switch {
		case mandatory > th.DailyMandatoryHardHours:
			add("excessive_daily_mandatory", th.DailyMandatoryHardPen,
				fmt.Sprintf("%.1f hours of mandatory sessions on %s", mandatory, day))
		case mandatory > th.DailyMandatorySoftHours:
			add("high_daily_mandatory", th.DailyMandatorySoftPen,
				fmt.Sprintf("%.1f hours of mandatory sessions on %s", mandatory, day))
		}

		if hasClusterRun(evs, th) {
			add("session_clustering", th.ClusterPen,
				fmt.Sprintf("back-to-back session cluster on %s", day))
		}

		if hasClassWorkOverlap(evs) {
			add("class_work_overlap", th.OverlapPen,
				fmt.Sprintf("class and work commitments overlap on %s", day))
		}

		if total > th.HeavyDayHours {
			heavyRun++
			if heavyRun > maxHeavyRun {
				maxHeavyRun = heavyRun
			}
		} else {
			heavyRun = 0
		}
	}

	weekly := s.TotalClassHours + s.TotalWorkHours
	switch {
	case weekly > th.WeeklyHardHours:
		add("excessive_weekly_load", th.WeeklyHardPen,
			fmt.Sprintf("%.1f combined class and work hours this week", weekly))
	case weekly > th.WeeklySoftHours:
		add("high_weekly_load", th.WeeklySoftPen,
			fmt.Sprintf("%.1f combined class and work hours this week", weekly))
	}

	if maxHeavyRun >= th.ConsecutiveHeavyDays {
		add("consecutive_heavy_days", th.ConsecutiveHeavyPen,
			fmt.Sprintf("%d consecutive days above %.0f scheduled hours", maxHeavyRun, th.HeavyDayHours))
	}

	score := 100
	for _, f := range factors {
		score += f.Impact
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, BandFor(score, th), factors
}

func BandFor(score int, th config.Thresholds) models.Band {
	switch {
	case score >= th.BandFeasibleMin:
		return models.BandFeasible
	case score >= th.BandStrainedMin:
		return models.BandStrained
	default:
		return models.BandAtRisk
	}
}

func hasClusterRun(sorted []models.CalendarEvent, th config.Thresholds) bool {
	run := 0
	for i := 0; i+1 < len(sorted); i++ {
		gap := sorted[i+1].Start.Sub(sorted[i].End).Minutes()
		if gap >= 0 && gap < th.ClusterGapMinutes {
			run++
			if run >= th.ClusterRunLength {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// hasClassWorkOverlap — есть ли в дне хотя бы одно пересечение занятия
// с рабочим событием (первое пересечение на занятие, как в детекторе).
func hasClassWorkOverlap(evs []models.CalendarEvent) bool {
	for _, class := range evs {
		if class.Category != models.CategoryClass {
			continue
		}
		for _, wk := range evs {
			if wk.Category != models.CategoryWork {
				continue
			}
			if class.Start.Before(wk.End) && class.End.After(wk.Start) {
				return true
			}
		}
	}
	return false
}
