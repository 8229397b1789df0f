package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListCrossings(ctx context.Context, filter domain.RecordFilter) ([]domain.CrossingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ts, vehicle_type, origin_country, control_point, duration_minutes, inspection_result, risk_level, inspector_name
		FROM crossing_records
		WHERE ($1::timestamptz IS NULL OR ts >= $1)
		  AND ($2::timestamptz IS NULL OR ts <= $2)
		ORDER BY ts DESC, id
	`, nullTime(filter.From), nullTime(filter.To))
	if err != nil {
		return nil, fmt.Errorf("list crossings: %w", err)
	}
	defer rows.Close()

	var records []domain.CrossingRecord
	for rows.Next() {
		var rec domain.CrossingRecord
		if err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.VehicleType, &rec.OriginCountry, &rec.ControlPoint,
			&rec.CrossingDurationMinutes, &rec.InspectionResult, &rec.RiskLevel, &rec.InspectorName,
		); err != nil {
			return nil, fmt.Errorf("scan crossing: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresRepository) InsertCrossings(ctx context.Context, records []domain.CrossingRecord) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crossing_records (id, ts, vehicle_type, origin_country, control_point, duration_minutes, inspection_result, risk_level, inspector_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Timestamp, string(rec.VehicleType), rec.OriginCountry, string(rec.ControlPoint),
			rec.CrossingDurationMinutes, string(rec.InspectionResult), string(rec.RiskLevel), rec.InspectorName,
		); err != nil {
			return fmt.Errorf("insert crossing %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
