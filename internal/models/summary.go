package models

import "time"

// FreeBlock — свободный интервал внутри рабочего окна дня.
type FreeBlock struct {
	Day   string    `json:"day"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeeklyCalendarSummary — производный кэш недельного календаря студента.
// Пересчитывается целиком при любом изменении исходных событий; ключ
// (student_id, week_start), week_start — понедельник ISO-недели.
type WeeklyCalendarSummary struct {
	ID                 int64           `db:"id" json:"-"`
	StudentID          int64           `db:"student_id" json:"student_id"`
	WeekStart          time.Time       `db:"week_start" json:"week_start"`
	Events             []CalendarEvent `db:"events" json:"events"`
	TotalClassHours    float64         `db:"total_class_hours" json:"total_class_hours"`
	TotalMandatoryHrs  float64         `db:"total_mandatory_hours" json:"total_mandatory_hours"`
	TotalWorkHours     float64         `db:"total_work_hours" json:"total_work_hours"`
	FreeBlocks         []FreeBlock     `db:"free_blocks" json:"free_blocks"`
	SkippedEventsCount int             `db:"skipped_events" json:"skipped_events"`
	UpdatedAt          time.Time       `db:"updated_at" json:"-"`
}

// DayEvents группирует события по дню недели (time.Weekday).
func (s *WeeklyCalendarSummary) DayEvents() map[int][]CalendarEvent {
	out := make(map[int][]CalendarEvent)
	for _, e := range s.Events {
		out[e.DayOfWeek] = append(out[e.DayOfWeek], e)
	}
	return out
}
