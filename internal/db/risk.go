package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campusops/viability-engine/internal/models"
)

// DeactivateRisks гасит все активные риски студента. Отдельный явный шаг
// перед возможным созданием нового — так у студента в любой момент не
// больше одной активной записи.
func DeactivateRisks(ctx context.Context, database *sql.DB, studentID int64) error {
	_, err := database.ExecContext(ctx,
		`UPDATE attendance_viability_risks SET active = FALSE WHERE student_id = $1 AND active = TRUE`, studentID)
	return err
}

func InsertRisk(ctx context.Context, database *sql.DB, r *models.AttendanceViabilityRisk) (int64, error) {
	reasons, err := json.Marshal(r.Reasons)
	if err != nil {
		return 0, fmt.Errorf("marshal reasons: %w", err)
	}
	var id int64
	err = database.QueryRowContext(ctx, `
INSERT INTO attendance_viability_risks (student_id, weeks_to_risk, confidence, reasons, recommendation, active, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, NOW()) RETURNING id`,
		r.StudentID, r.WeeksToRisk, r.Confidence, reasons, r.Recommendation).Scan(&id)
	return id, err
}

func GetActiveRisk(ctx context.Context, database *sql.DB, studentID int64) (*models.AttendanceViabilityRisk, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, student_id, weeks_to_risk, confidence, reasons, recommendation, active, created_at
FROM attendance_viability_risks
WHERE student_id = $1 AND active = TRUE ORDER BY id DESC LIMIT 1`, studentID)

	var r models.AttendanceViabilityRisk
	var reasons []byte
	err := row.Scan(&r.ID, &r.StudentID, &r.WeeksToRisk, &r.Confidence, &reasons, &r.Recommendation, &r.Active, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reasons, &r.Reasons); err != nil {
		return nil, fmt.Errorf("unmarshal reasons: %w", err)
	}
	return &r, nil
}

func ListActiveRisks(ctx context.Context, database *sql.DB) ([]models.AttendanceViabilityRisk, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, weeks_to_risk, confidence, reasons, recommendation, active, created_at
FROM attendance_viability_risks WHERE active = TRUE ORDER BY student_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.AttendanceViabilityRisk
	for rows.Next() {
		var r models.AttendanceViabilityRisk
		var reasons []byte
		if err := rows.Scan(&r.ID, &r.StudentID, &r.WeeksToRisk, &r.Confidence, &reasons, &r.Recommendation, &r.Active, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(reasons, &r.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshal reasons: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
