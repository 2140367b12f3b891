package models

import "time"

type ConflictType string

const (
	ConflictDayExceedsHours  ConflictType = "day_exceeds_hours"
	ConflictExcessiveSess    ConflictType = "excessive_sessions"
	ConflictUnrealTransition ConflictType = "unrealistic_transition"
	ConflictClassWorkOverlap ConflictType = "class_work_overlap"
)

func (t ConflictType) IsValid() bool {
	switch t {
	case ConflictDayExceedsHours, ConflictExcessiveSess, ConflictUnrealTransition, ConflictClassWorkOverlap:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// CalendarConflict — снимок проблемы текущего календаря студента.
// Нерешённые конфликты при каждом анализе удаляются и вставляются заново,
// история не ведётся.
type CalendarConflict struct {
	ID        int64        `db:"id" json:"-"`
	StudentID int64        `db:"student_id" json:"student_id"`
	Type      ConflictType `db:"conflict_type" json:"type"`
	Day       string       `db:"day" json:"day"`
	Severity  Severity     `db:"severity" json:"severity"`
	Detail    string       `db:"detail" json:"detail"`
	Resolved  bool         `db:"resolved" json:"resolved"`
	CreatedAt time.Time    `db:"created_at" json:"-"`
}
