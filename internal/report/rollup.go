package report

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/db"
	"github.com/campusops/viability-engine/internal/models"
)

// PortfolioReport — сводка по всем студентам: чтение поверх персистентных
// артефактов анализа, ничего не пишет.
type PortfolioReport struct {
	TotalRecords    int                        `json:"total_records"`
	BandCounts      map[models.Band]int        `json:"band_counts"`
	BandPercents    map[models.Band]int        `json:"band_percents"`
	AverageScore    float64                    `json:"average_score"`
	ActiveRisks     int                        `json:"active_risks"`
	AvgWeeksToRisk  float64                    `json:"avg_weeks_to_risk"`
	ConflictCounts  map[models.ConflictType]int `json:"conflict_counts"`
	Cases           []CaseStudy                `json:"cases"`
}

// CaseStudy — анонимизированный пример strained/at_risk недели.
// Нумерация CASE-001.. в порядке обхода, не по тяжести.
type CaseStudy struct {
	Label       string      `json:"label"`
	Band        models.Band `json:"band"`
	Score       int         `json:"score"`
	WeeksToRisk *int        `json:"weeks_to_risk,omitempty"`
	Conflicts   int         `json:"conflicts"`
}

// BuildPortfolioReport агрегирует артефакты анализа по всему портфелю.
// Средний балл считается по всем недельным записям, не по студентам:
// студент с длинной историей весит больше — поведение намеренное,
// закреплено тестом.
func BuildPortfolioReport(ctx context.Context, database *sql.DB, th config.Thresholds) (*PortfolioReport, error) {
	feas, err := db.ListAllFeasibility(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load feasibility records: %w", err)
	}
	conflicts, err := db.ListAllUnresolvedConflicts(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load conflicts: %w", err)
	}
	risks, err := db.ListActiveRisks(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load risks: %w", err)
	}

	r := &PortfolioReport{
		TotalRecords:   len(feas),
		BandCounts:     make(map[models.Band]int),
		BandPercents:   make(map[models.Band]int),
		ConflictCounts: make(map[models.ConflictType]int),
	}

	scoreSum := 0
	for _, f := range feas {
		r.BandCounts[f.Band]++
		scoreSum += f.Score
	}
	if len(feas) > 0 {
		r.AverageScore = float64(scoreSum) / float64(len(feas))
		for band, n := range r.BandCounts {
			r.BandPercents[band] = percent(n, len(feas))
		}
	}

	for _, c := range conflicts {
		r.ConflictCounts[c.Type]++
	}

	riskByStudent := make(map[int64]models.AttendanceViabilityRisk, len(risks))
	weeksSum := 0
	for _, rk := range risks {
		riskByStudent[rk.StudentID] = rk
		weeksSum += rk.WeeksToRisk
	}
	r.ActiveRisks = len(risks)
	if len(risks) > 0 {
		r.AvgWeeksToRisk = float64(weeksSum) / float64(len(risks))
	}

	conflictsByStudent := make(map[int64]int)
	for _, c := range conflicts {
		conflictsByStudent[c.StudentID]++
	}

	for _, f := range feas {
		if len(r.Cases) >= th.ReportCaseCap {
			break
		}
		if f.Band == models.BandFeasible {
			continue
		}
		cs := CaseStudy{
			Label:     fmt.Sprintf("CASE-%03d", len(r.Cases)+1),
			Band:      f.Band,
			Score:     f.Score,
			Conflicts: conflictsByStudent[f.StudentID],
		}
		if rk, ok := riskByStudent[f.StudentID]; ok {
			w := rk.WeeksToRisk
			cs.WeeksToRisk = &w
		}
		r.Cases = append(r.Cases, cs)
	}

	return r, nil
}

// percent — целочисленный процент с защитой от деления на ноль.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
