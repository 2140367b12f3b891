package timetable

import (
	"time"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/models"
)

// Aggregate сворачивает все события студента в одну репрезентативную неделю:
// события трактуются как еженедельно повторяющиеся паттерны и проецируются
// на текущую ISO-неделю (понедельник — старт) от опорного времени now.
// События с end<=start и с неизвестным event_type пропускаются поштучно и
// учитываются в SkippedEventsCount — один битый интервал не валит всю сборку.
func Aggregate(studentID int64, academic []models.AcademicEvent, work []models.WorkEvent, now time.Time, th config.Thresholds) *models.WeeklyCalendarSummary {
	weekStart := WeekStart(now)

	s := &models.WeeklyCalendarSummary{
		StudentID: studentID,
		WeekStart: weekStart,
	}

	for _, ev := range academic {
		if !ev.EventType.IsValid() || !ev.EndTime.After(ev.StartTime) {
			s.SkippedEventsCount++
			continue
		}
		ce := projectOntoWeek(weekStart, ev.StartTime, ev.EndTime, models.CategoryClass, ev.Mandatory, derefLabel(ev.Title))
		h := ce.Hours()
		s.TotalClassHours += h
		if ev.Mandatory {
			s.TotalMandatoryHrs += h
		}
		s.Events = append(s.Events, ce)
	}
	for _, ev := range work {
		if !ev.EventType.IsValid() || !ev.EndTime.After(ev.StartTime) {
			s.SkippedEventsCount++
			continue
		}
		ce := projectOntoWeek(weekStart, ev.StartTime, ev.EndTime, models.CategoryWork, false, derefLabel(ev.Title))
		s.TotalWorkHours += ce.Hours()
		s.Events = append(s.Events, ce)
	}

	sortEvents(s.Events)
	s.FreeBlocks = freeBlocks(s, th)
	return s
}

// WeekStart — понедельник 00:00 ISO-недели, в зоне t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// projectOntoWeek переносит событие на дату его дня недели внутри текущей
// недели, сохраняя время суток и длительность. DayOfWeek выводится из start.
func projectOntoWeek(weekStart time.Time, start, end time.Time, cat models.EventCategory, mandatory bool, label string) models.CalendarEvent {
	start = start.In(weekStart.Location())
	dow := int(start.Weekday())
	dayOffset := (dow + 6) % 7
	day := weekStart.AddDate(0, 0, dayOffset)
	projStart := time.Date(day.Year(), day.Month(), day.Day(),
		start.Hour(), start.Minute(), start.Second(), 0, weekStart.Location())
	return models.CalendarEvent{
		Category:  cat,
		Start:     projStart,
		End:       projStart.Add(end.Sub(start)),
		Mandatory: mandatory,
		DayOfWeek: dow,
		Label:     label,
	}
}

// freeBlocks — просветы в рабочем окне (по умолчанию 09:00–17:00) по будням.
// День без событий даёт один блок на всё окно.
func freeBlocks(s *models.WeeklyCalendarSummary, th config.Thresholds) []models.FreeBlock {
	days := s.DayEvents()
	var out []models.FreeBlock
	for offset := 0; offset < 5; offset++ { // Mon..Fri
		day := s.WeekStart.AddDate(0, 0, offset)
		dow := int(day.Weekday())
		winStart := time.Date(day.Year(), day.Month(), day.Day(), th.WorkWindowStartHour, 0, 0, 0, day.Location())
		winEnd := time.Date(day.Year(), day.Month(), day.Day(), th.WorkWindowEndHour, 0, 0, 0, day.Location())

		evs := append([]models.CalendarEvent(nil), days[dow]...)
		sortEvents(evs)

		cursor := winStart
		for _, e := range evs {
			if e.Start.After(cursor) && cursor.Before(winEnd) {
				end := e.Start
				if end.After(winEnd) {
					end = winEnd
				}
				out = append(out, models.FreeBlock{Day: dayName(dow), Start: cursor, End: end})
			}
			if e.End.After(cursor) {
				cursor = e.End
			}
		}
		if cursor.Before(winEnd) {
			out = append(out, models.FreeBlock{Day: dayName(dow), Start: cursor, End: winEnd})
		}
	}
	return out
}

func derefLabel(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
