package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/ctxutil"
	"github.com/campusops/viability-engine/internal/db"
	"github.com/campusops/viability-engine/internal/metrics"
	"github.com/campusops/viability-engine/internal/models"
	"github.com/campusops/viability-engine/internal/observability"
	"github.com/campusops/viability-engine/internal/timetable"
	"go.uber.org/zap"
)

// RiskNotifier — внешний приёмник уведомлений о новых активных рисках.
type RiskNotifier interface {
	RiskActivated(ctx context.Context, risk models.AttendanceViabilityRisk)
}

// Analyzer прогоняет полный цикл по студенту:
// пересчёт недельного кэша → конфликты → оценка → проекция риска.
// Каждый шаг — детерминированная функция текущих исходных событий,
// повторный запуск безопасен и сходится к тому же результату.
type Analyzer struct {
	DB         *sql.DB
	Log        *zap.SugaredLogger
	Now        func() time.Time // опорное время; в тестах фиксируется
	Thresholds config.Thresholds
	Notifier   RiskNotifier // nil — уведомления выключены

	locks *studentLocks
}

func NewAnalyzer(database *sql.DB, log *zap.SugaredLogger, now func() time.Time, th config.Thresholds, notifier RiskNotifier) *Analyzer {
	return &Analyzer{
		DB:         database,
		Log:        log,
		Now:        now,
		Thresholds: th,
		Notifier:   notifier,
		locks:      newStudentLocks(),
	}
}

// Result — итог одного прогона по студенту. NoData=true — у студента нет
// ни одного календарного события; артефакты в этом случае не пишутся.
type Result struct {
	StudentID   int64                          `json:"student_id"`
	NoData      bool                           `json:"no_data,omitempty"`
	Summary     *models.WeeklyCalendarSummary  `json:"summary,omitempty"`
	Feasibility *models.TimetableFeasibility   `json:"feasibility,omitempty"`
	Conflicts   []models.CalendarConflict      `json:"conflicts"`
	Risk        *models.AttendanceViabilityRisk `json:"risk,omitempty"`
}

// StudentError — структурная ошибка по одному студенту, наружу не паникуем.
type StudentError struct {
	StudentID int64  `json:"student_id"`
	Message   string `json:"message"`
}

type BatchResult struct {
	Analyzed  int            `json:"analyzed"`
	NoData    int            `json:"no_data"`
	Succeeded []int64        `json:"succeeded"`
	Errors    []StudentError `json:"errors"`
}

func (a *Analyzer) AnalyzeStudent(ctx context.Context, studentID int64, trigger string) (*Result, error) {
	unlock := a.locks.lock(studentID)
	defer unlock()

	ctx = ctxutil.WithStudentID(ctx, studentID)
	start := time.Now()

	res, err := a.analyzeLocked(ctx, studentID)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysisErrors.WithLabelValues(trigger).Inc()
		return nil, err
	}
	metrics.AnalysesTotal.WithLabelValues(trigger).Inc()
	return res, nil
}

func (a *Analyzer) analyzeLocked(ctx context.Context, studentID int64) (*Result, error) {
	dbCtx, cancel := ctxutil.WithDBTimeout(ctx)
	academic, err := db.ListAcademicEvents(dbCtx, a.DB, studentID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("student %d: load academic events: %w", studentID, err)
	}
	dbCtx, cancel = ctxutil.WithDBTimeout(ctx)
	work, err := db.ListWorkEvents(dbCtx, a.DB, studentID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("student %d: load work events: %w", studentID, err)
	}

	if len(academic) == 0 && len(work) == 0 {
		a.Log.Infow("no calendar data, skipping", "student_id", studentID)
		return &Result{StudentID: studentID, NoData: true}, nil
	}

	summary := timetable.Aggregate(studentID, academic, work, a.Now(), a.Thresholds)
	if err := db.UpsertWeeklySummary(ctx, a.DB, summary); err != nil {
		return nil, fmt.Errorf("student %d: upsert summary: %w", studentID, err)
	}

	conflicts := timetable.DetectConflicts(summary, a.Thresholds)
	if err := db.ReplaceUnresolvedConflicts(ctx, a.DB, studentID, conflicts); err != nil {
		return nil, fmt.Errorf("student %d: replace conflicts: %w", studentID, err)
	}
	for _, c := range conflicts {
		metrics.ConflictsDetected.WithLabelValues(string(c.Type)).Inc()
	}

	score, band, factors := timetable.ScoreWeek(summary, a.Thresholds)
	feas := &models.TimetableFeasibility{
		StudentID: studentID,
		WeekStart: summary.WeekStart,
		Score:     score,
		Band:      band,
		Factors:   factors,
	}
	if err := db.UpsertFeasibility(ctx, a.DB, feas); err != nil {
		return nil, fmt.Errorf("student %d: upsert feasibility: %w", studentID, err)
	}

	history, err := db.ListRecentFeasibility(ctx, a.DB, studentID, a.Thresholds.TrendWindow)
	if err != nil {
		return nil, fmt.Errorf("student %d: load feasibility history: %w", studentID, err)
	}

	// Сначала гасим все активные риски, и только потом, возможно, создаём
	// новый: инвариант «не больше одной активной записи» держится всегда.
	if err := db.DeactivateRisks(ctx, a.DB, studentID); err != nil {
		return nil, fmt.Errorf("student %d: deactivate risks: %w", studentID, err)
	}

	var risk *models.AttendanceViabilityRisk
	decision := timetable.ProjectRisk(timetable.ProjectionInput{
		Feasibility: *feas,
		Conflicts:   conflicts,
		History:     history,
	}, a.Thresholds)
	if decision != nil {
		risk = &models.AttendanceViabilityRisk{
			StudentID:      studentID,
			WeeksToRisk:    decision.WeeksToRisk,
			Confidence:     decision.Confidence,
			Reasons:        decision.Reasons,
			Recommendation: decision.Recommendation,
			Active:         true,
		}
		id, err := db.InsertRisk(ctx, a.DB, risk)
		if err != nil {
			return nil, fmt.Errorf("student %d: insert risk: %w", studentID, err)
		}
		risk.ID = id
		metrics.RisksActivated.Inc()
		a.Log.Warnw("viability risk activated",
			"student_id", studentID, "weeks_to_risk", risk.WeeksToRisk, "confidence", risk.Confidence)
		if a.Notifier != nil {
			a.Notifier.RiskActivated(ctx, *risk)
		}
	}

	a.Log.Infow("analysis done",
		"student_id", studentID, "score", score, "band", band,
		"conflicts", len(conflicts), "risk", risk != nil)

	return &Result{
		StudentID:   studentID,
		Summary:     summary,
		Feasibility: feas,
		Conflicts:   conflicts,
		Risk:        risk,
	}, nil
}

// AnalyzeAll — батч по всем студентам, у которых есть хотя бы один недельный
// кэш. Студенты независимы: ошибка одного записывается и не прерывает батч.
func (a *Analyzer) AnalyzeAll(ctx context.Context, trigger string) (*BatchResult, error) {
	ids, err := db.ListStudentIDsWithSummaries(ctx, a.DB)
	if err != nil {
		return nil, fmt.Errorf("enumerate students: %w", err)
	}

	out := &BatchResult{}
	for _, id := range ids {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		res, err := a.AnalyzeStudent(ctx, id, trigger)
		if err != nil {
			observability.CaptureErr(err)
			a.Log.Errorw("student analysis failed", "student_id", id, "err", err)
			out.Errors = append(out.Errors, StudentError{StudentID: id, Message: err.Error()})
			continue
		}
		if res.NoData {
			out.NoData++
			continue
		}
		out.Analyzed++
		out.Succeeded = append(out.Succeeded, id)
	}
	return out, nil
}
