package models

import "time"

type EventCategory string

const (
	CategoryClass EventCategory = "class"
	CategoryWork  EventCategory = "work"
)

func (c EventCategory) IsValid() bool {
	return c == CategoryClass || c == CategoryWork
}

type AcademicEventType string

const (
	AcademicLecture AcademicEventType = "lecture"
	AcademicSeminar AcademicEventType = "seminar"
	AcademicLab     AcademicEventType = "lab"
)

func (t AcademicEventType) IsValid() bool {
	switch t {
	case AcademicLecture, AcademicSeminar, AcademicLab:
		return true
	}
	return false
}

type WorkEventType string

const (
	WorkShift    WorkEventType = "work"
	WorkPersonal WorkEventType = "personal"
)

func (t WorkEventType) IsValid() bool {
	return t == WorkShift || t == WorkPersonal
}

// AcademicEvent — исходная запись расписания занятий студента.
type AcademicEvent struct {
	ID        int64             `db:"id"`
	StudentID int64             `db:"student_id"`
	EventType AcademicEventType `db:"event_type"`
	StartTime time.Time         `db:"start_time"`
	EndTime   time.Time         `db:"end_time"`
	Mandatory bool              `db:"mandatory"`
	Title     *string           `db:"title"`
}

// WorkEvent — рабочие/личные события; никогда не обязательные.
type WorkEvent struct {
	ID        int64         `db:"id"`
	StudentID int64         `db:"student_id"`
	EventType WorkEventType `db:"event_type"`
	StartTime time.Time     `db:"start_time"`
	EndTime   time.Time     `db:"end_time"`
	Title     *string       `db:"title"`
}

// CalendarEvent — нормализованное событие недельного календаря.
// DayOfWeek всегда выводится из Start (0 = воскресенье, как в time.Weekday).
type CalendarEvent struct {
	Category  EventCategory `json:"category"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Mandatory bool          `json:"mandatory"`
	DayOfWeek int           `json:"day_of_week"`
	Label     string        `json:"label,omitempty"`
}

func (e CalendarEvent) Hours() float64 {
	return e.End.Sub(e.Start).Hours()
}
