package timetable_test

import (
	"testing"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/models"
	"github.com/campusops/viability-engine/internal/timetable"
)

func factorKeys(factors []models.FeasibilityFactor) map[string]int {
	out := make(map[string]int)
	for _, f := range factors {
		out[f.Key] = f.Impact
	}
	return out
}

func TestScoreWeek_EmptyCalendar(t *testing.T) {
	s := summarize(t, nil, nil)
	score, band, factors := timetable.ScoreWeek(s, config.DefaultThresholds())
	if score != 100 || band != models.BandFeasible || len(factors) != 0 {
		t.Fatalf("empty calendar: score=%d band=%s factors=%v, want 100/feasible/none", score, band, factors)
	}
}

func TestScoreWeek_NineHourMandatoryMonday(t *testing.T) {
	// Один 9-часовой обязательный блок в понедельник: −20, итог 80, strained.
	s := summarize(t, []models.AcademicEvent{
		lecture(1, day(0, 8, 0), day(0, 17, 0), true),
	}, nil)
	score, band, factors := timetable.ScoreWeek(s, config.DefaultThresholds())

	keys := factorKeys(factors)
	if impact, ok := keys["excessive_daily_mandatory"]; !ok || impact != -20 {
		t.Fatalf("excessive_daily_mandatory impact = %d (present=%v), want -20", impact, ok)
	}
	if score != 80 {
		t.Errorf("score = %d, want 80", score)
	}
	if band != models.BandStrained {
		t.Errorf("band = %s, want strained", band)
	}
}

func TestScoreWeek_SoftDailyMandatory(t *testing.T) {
	// 7 часов: больше 6, не больше 8 → −10, не −20.
	s := summarize(t, []models.AcademicEvent{
		lecture(1, day(0, 9, 0), day(0, 16, 0), true),
	}, nil)
	_, _, factors := timetable.ScoreWeek(s, config.DefaultThresholds())

	keys := factorKeys(factors)
	if impact, ok := keys["high_daily_mandatory"]; !ok || impact != -10 {
		t.Fatalf("high_daily_mandatory impact = %d (present=%v), want -10", impact, ok)
	}
	if _, ok := keys["excessive_daily_mandatory"]; ok {
		t.Fatal("both daily-mandatory rules fired for 7h")
	}
}

func TestScoreWeek_ClassWorkOverlapPenalty(t *testing.T) {
	// Вторник: смена 14–16 и лаба 15–17 → фактор class_work_overlap −25.
	s := summarize(t,
		[]models.AcademicEvent{{
			StudentID: 1, EventType: models.AcademicLab,
			StartTime: day(1, 15, 0), EndTime: day(1, 17, 0), Mandatory: true,
		}},
		[]models.WorkEvent{shift(1, day(1, 14, 0), day(1, 16, 0))},
	)
	score, _, factors := timetable.ScoreWeek(s, config.DefaultThresholds())

	keys := factorKeys(factors)
	if impact, ok := keys["class_work_overlap"]; !ok || impact != -25 {
		t.Fatalf("class_work_overlap impact = %d (present=%v), want -25", impact, ok)
	}
	if score != 75 {
		t.Errorf("score = %d, want 75", score)
	}
}

func TestScoreWeek_OverlapStrictlyDecreasesFeasibleWeek(t *testing.T) {
	base := summarize(t, []models.AcademicEvent{
		lecture(1, day(0, 9, 0), day(0, 11, 0), true),
	}, nil)
	baseScore, baseBand, _ := timetable.ScoreWeek(base, config.DefaultThresholds())
	if baseBand != models.BandFeasible {
		t.Fatalf("baseline week not feasible: %d %s", baseScore, baseBand)
	}

	with := summarize(t,
		[]models.AcademicEvent{lecture(1, day(0, 9, 0), day(0, 11, 0), true)},
		[]models.WorkEvent{shift(1, day(0, 10, 0), day(0, 12, 0))},
	)
	withScore, _, _ := timetable.ScoreWeek(with, config.DefaultThresholds())
	if baseScore-withScore < 25 {
		t.Fatalf("overlap decreased score by %d, want at least 25", baseScore-withScore)
	}
	conflicts := timetable.DetectConflicts(with, config.DefaultThresholds())
	found := false
	for _, c := range conflicts {
		if c.Type == models.ConflictClassWorkOverlap && c.Severity == models.SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Fatal("no high class_work_overlap conflict for overlapping week")
	}
}

func TestScoreWeek_WeeklyLoadThresholds(t *testing.T) {
	th := config.DefaultThresholds()

	// 45 часов работы: высокая, но не чрезмерная недельная нагрузка.
	mid := summarize(t, nil, []models.WorkEvent{
		shift(1, day(0, 8, 0), day(0, 17, 0)),
		shift(1, day(1, 8, 0), day(1, 17, 0)),
		shift(1, day(2, 8, 0), day(2, 17, 0)),
		shift(1, day(3, 8, 0), day(3, 17, 0)),
		shift(1, day(4, 8, 0), day(4, 17, 0)),
	})
	_, _, factors := timetable.ScoreWeek(mid, th)
	keys := factorKeys(factors)
	if _, ok := keys["high_weekly_load"]; !ok {
		t.Errorf("45h week: high_weekly_load missing, factors=%v", factors)
	}
	if _, ok := keys["excessive_weekly_load"]; ok {
		t.Error("45h week flagged as excessive")
	}

	// 55 часов — чрезмерная.
	heavy := summarize(t, nil, []models.WorkEvent{
		shift(1, day(0, 7, 0), day(0, 18, 0)),
		shift(1, day(1, 7, 0), day(1, 18, 0)),
		shift(1, day(2, 7, 0), day(2, 18, 0)),
		shift(1, day(3, 7, 0), day(3, 18, 0)),
		shift(1, day(4, 7, 0), day(4, 18, 0)),
	})
	_, _, factors = timetable.ScoreWeek(heavy, th)
	keys = factorKeys(factors)
	if impact, ok := keys["excessive_weekly_load"]; !ok || impact != -20 {
		t.Errorf("55h week: excessive_weekly_load = %d (present=%v), want -20", impact, ok)
	}

	// Пять дней по 9–11 часов — ещё и серия тяжёлых дней.
	if impact, ok := keys["consecutive_heavy_days"]; !ok || impact != -15 {
		t.Errorf("consecutive_heavy_days = %d (present=%v), want -15", impact, ok)
	}
}

func TestScoreWeek_ClampedToZero(t *testing.T) {
	// Неделя-катастрофа: промежуточная сумма уходит сильно в минус,
	// итог зажат в ноль.
	var academic []models.AcademicEvent
	var work []models.WorkEvent
	for d := 0; d < 5; d++ {
		academic = append(academic, lecture(1, day(d, 8, 0), day(d, 17, 0), true))
		work = append(work, shift(1, day(d, 9, 0), day(d, 17, 0)))
	}
	score, band, _ := timetable.ScoreWeek(summarize(t, academic, work), config.DefaultThresholds())
	if score != 0 {
		t.Fatalf("score = %d, want clamp to 0", score)
	}
	if band != models.BandAtRisk {
		t.Fatalf("band = %s, want at_risk", band)
	}
}

func TestBandBoundaries(t *testing.T) {
	th := config.DefaultThresholds()
	cases := []struct {
		score int
		want  models.Band
	}{
		{100, models.BandFeasible},
		{85, models.BandFeasible},
		{84, models.BandStrained},
		{60, models.BandStrained},
		{59, models.BandAtRisk},
		{0, models.BandAtRisk},
	}
	for _, c := range cases {
		if got := timetable.BandFor(c.score, th); got != c.want {
			t.Errorf("BandFor(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}
