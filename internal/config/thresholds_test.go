package config

import "testing"

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	if th.DailyMandatoryHardHours != 8 || th.DailyMandatoryHardPen != -20 {
		t.Errorf("hard daily rule = %v/%d", th.DailyMandatoryHardHours, th.DailyMandatoryHardPen)
	}
	if th.DailyMandatorySoftHours != 6 || th.DailyMandatorySoftPen != -10 {
		t.Errorf("soft daily rule = %v/%d", th.DailyMandatorySoftHours, th.DailyMandatorySoftPen)
	}
	if th.OverlapPen != -25 {
		t.Errorf("overlap penalty = %d", th.OverlapPen)
	}
	if th.WeeklyHardHours != 50 || th.WeeklySoftHours != 40 {
		t.Errorf("weekly thresholds = %v/%v", th.WeeklyHardHours, th.WeeklySoftHours)
	}
	if th.BandFeasibleMin != 85 || th.BandStrainedMin != 60 {
		t.Errorf("band cutoffs = %d/%d", th.BandFeasibleMin, th.BandStrainedMin)
	}
	if th.WorkWindowStartHour != 9 || th.WorkWindowEndHour != 17 {
		t.Errorf("work window = %d..%d", th.WorkWindowStartHour, th.WorkWindowEndHour)
	}
	if th.TrendWindow != 3 || th.ReportCaseCap != 5 {
		t.Errorf("trend window = %d, case cap = %d", th.TrendWindow, th.ReportCaseCap)
	}
}

func TestThresholdsFromEnv(t *testing.T) {
	t.Setenv("TH_BAND_FEASIBLE_MIN", "90")
	t.Setenv("TH_WEEKLY_HARD_HOURS", "45.5")
	t.Setenv("TH_CLUSTER_GAP_MINUTES", "garbage") // игнорируется, остаётся дефолт

	th := ThresholdsFromEnv()
	if th.BandFeasibleMin != 90 {
		t.Errorf("BandFeasibleMin = %d, want 90 from env", th.BandFeasibleMin)
	}
	if th.WeeklyHardHours != 45.5 {
		t.Errorf("WeeklyHardHours = %v, want 45.5 from env", th.WeeklyHardHours)
	}
	if th.ClusterGapMinutes != 15 {
		t.Errorf("ClusterGapMinutes = %v, want default 15", th.ClusterGapMinutes)
	}
	if th.BandStrainedMin != 60 {
		t.Errorf("untouched threshold changed: %d", th.BandStrainedMin)
	}
}
