package timetable

import (
	"fmt"
	"sort"
	"time"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/models"
)

// mondayFirst — фиксированный порядок обхода дней для детерминированного
// вывода (понедельник — старт недели).
var mondayFirst = []int{1, 2, 3, 4, 5, 6, 0}

func dayName(dow int) string {
	return time.Weekday(dow).String()
}

func sortEvents(evs []models.CalendarEvent) {
	sort.SliceStable(evs, func(i, j int) bool {
		if !evs[i].Start.Equal(evs[j].Start) {
			return evs[i].Start.Before(evs[j].Start)
		}
		return evs[i].End.Before(evs[j].End)
	})
}

// DetectConflicts сканирует недельный календарь и возвращает снимок проблем.
// Четыре правила независимы: один день может дать несколько конфликтов.
// Истинное наложение ловится двумя путями (скан соседних пар и проверка
// класс↔работа) и может быть зарепорчено дважды с разным detail — известная
// особенность, не дедуплицируем.
func DetectConflicts(s *models.WeeklyCalendarSummary, th config.Thresholds) []models.CalendarConflict {
	days := s.DayEvents()
	var out []models.CalendarConflict

	for _, dow := range mondayFirst {
		evs := append([]models.CalendarEvent(nil), days[dow]...)
		if len(evs) == 0 {
			continue
		}
		sortEvents(evs)
		day := dayName(dow)

		// day_exceeds_hours: обязательные часы за день
		var mandatory float64
		for _, e := range evs {
			if e.Mandatory {
				mandatory += e.Hours()
			}
		}
		if mandatory > th.DailyMandatoryHardHours {
			out = append(out, models.CalendarConflict{
				StudentID: s.StudentID,
				Type:      models.ConflictDayExceedsHours,
				Day:       day,
				Severity:  models.SeverityHigh,
				Detail:    fmt.Sprintf("%s has %.1f hours of mandatory sessions, above the %.0f-hour daily limit", day, mandatory, th.DailyMandatoryHardHours),
			})
		}

		// Скан соседних пар: наложения, нереальные переходы, кластеры.
		shortRun := 0
		clustered := false
		for i := 0; i+1 < len(evs); i++ {
			gap := evs[i+1].Start.Sub(evs[i].End).Minutes()
			switch {
			case gap < 0:
				// второй, независимый путь репорта наложений
				out = append(out, models.CalendarConflict{
					StudentID: s.StudentID,
					Type:      models.ConflictClassWorkOverlap,
					Day:       day,
					Severity:  models.SeverityHigh,
					Detail:    fmt.Sprintf("%s: %s overlaps the previous session by %.0f minutes", day, eventLabel(evs[i+1]), -gap),
				})
			case gap > 0 && gap < th.TransitionMinMinutes:
				out = append(out, models.CalendarConflict{
					StudentID: s.StudentID,
					Type:      models.ConflictUnrealTransition,
					Day:       day,
					Severity:  models.SeverityMedium,
					Detail:    fmt.Sprintf("%s: only %.0f minutes between %s and %s", day, gap, eventLabel(evs[i]), eventLabel(evs[i+1])),
				})
			}
			if gap >= 0 && gap < th.ClusterGapMinutes {
				shortRun++
				if shortRun >= th.ClusterRunLength {
					clustered = true
				}
			} else {
				shortRun = 0
			}
		}
		if clustered {
			out = append(out, models.CalendarConflict{
				StudentID: s.StudentID,
				Type:      models.ConflictExcessiveSess,
				Day:       day,
				Severity:  models.SeverityMedium,
				Detail:    fmt.Sprintf("%s is a high-density day: %d or more back-to-back sessions with under %.0f-minute breaks", day, th.ClusterRunLength+1, th.ClusterGapMinutes),
			})
		}

		// class_work_overlap: для каждого занятия — первая пересекающаяся смена
		for _, class := range evs {
			if class.Category != models.CategoryClass {
				continue
			}
			for _, wk := range evs {
				if wk.Category != models.CategoryWork {
					continue
				}
				if class.Start.Before(wk.End) && class.End.After(wk.Start) {
					out = append(out, models.CalendarConflict{
						StudentID: s.StudentID,
						Type:      models.ConflictClassWorkOverlap,
						Day:       day,
						Severity:  models.SeverityHigh,
						Detail:    fmt.Sprintf("%s: %s clashes with work commitment %s", day, eventLabel(class), eventLabel(wk)),
					})
					break
				}
			}
		}
	}
	return out
}

func eventLabel(e models.CalendarEvent) string {
	if e.Label != "" {
		return e.Label
	}
	if e.Category == models.CategoryWork {
		return "work"
	}
	return "class"
}
