package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/features/reserve/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ReserveRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, reserve *models.Reserve) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reserves (id, name, comune, contact_email, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING is_active, created_at
	`, reserve.ID, reserve.Name, reserve.Comune, reserve.ContactEmail).Scan(&reserve.IsActive, &reserve.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reserve: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO reserve_settings (reserve_id) VALUES ($1)`, reserve.ID); err != nil {
		return fmt.Errorf("failed to create reserve settings: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Reserve, error) {
	var reserve models.Reserve
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, comune, contact_email, is_active, created_at
		FROM reserves
		WHERE id = $1
	`, id).Scan(&reserve.ID, &reserve.Name, &reserve.Comune, &reserve.ContactEmail, &reserve.IsActive, &reserve.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrReserveNotFound
		}
		return nil, fmt.Errorf("failed to get reserve: %w", err)
	}
	return &reserve, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*models.Reserve, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, comune, contact_email, is_active, created_at
		FROM reserves
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reserves: %w", err)
	}
	defer rows.Close()

	reserves := []*models.Reserve{}
	for rows.Next() {
		var reserve models.Reserve
		if err := rows.Scan(&reserve.ID, &reserve.Name, &reserve.Comune, &reserve.ContactEmail, &reserve.IsActive, &reserve.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reserve: %w", err)
		}
		reserves = append(reserves, &reserve)
	}
	return reserves, rows.Err()
}

func (r *postgresRepository) GetSettings(ctx context.Context, reserveID string) (*models.Settings, error) {
	var (
		s           models.Settings
		silenceDays pq.Int64Array
		management  string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT reserve_id, silence_days, management_type, booking_window_enabled,
			booking_open_hour, booking_close_hour, season_start, season_end,
			group_quotas_enabled, updated_at
		FROM reserve_settings
		WHERE reserve_id = $1
	`, reserveID).Scan(&s.ReserveID, &silenceDays, &management, &s.BookingWindowEnabled,
		&s.BookingOpenHour, &s.BookingCloseHour, &s.SeasonStart, &s.SeasonEnd,
		&s.GroupQuotasEnabled, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrReserveNotFound
		}
		return nil, fmt.Errorf("failed to get reserve settings: %w", err)
	}

	s.ManagementType = models.ManagementType(management)
	s.SilenceDays = make([]int, len(silenceDays))
	for i, d := range silenceDays {
		s.SilenceDays[i] = int(d)
	}
	return &s, nil
}

func (r *postgresRepository) UpdateSettings(ctx context.Context, s *models.Settings) error {
	days := make(pq.Int64Array, len(s.SilenceDays))
	for i, d := range s.SilenceDays {
		days[i] = int64(d)
	}

	err := r.db.QueryRowContext(ctx, `
		UPDATE reserve_settings
		SET silence_days = $2, management_type = $3, booking_window_enabled = $4,
			booking_open_hour = $5, booking_close_hour = $6, season_start = $7,
			season_end = $8, group_quotas_enabled = $9, updated_at = NOW()
		WHERE reserve_id = $1
		RETURNING updated_at
	`, s.ReserveID, days, string(s.ManagementType), s.BookingWindowEnabled,
		s.BookingOpenHour, s.BookingCloseHour, s.SeasonStart, s.SeasonEnd,
		s.GroupQuotasEnabled).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrReserveNotFound
		}
		return fmt.Errorf("failed to update reserve settings: %w", err)
	}
	return nil
}

func (r *postgresRepository) CreateZone(ctx context.Context, zone *models.Zone) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO zones (reserve_id, name, description, is_active)
		VALUES ($1, $2, NULLIF($3, ''), TRUE)
		RETURNING id, is_active
	`, zone.ReserveID, zone.Name, zone.Description).Scan(&zone.ID, &zone.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetZone(ctx context.Context, id int64) (*models.Zone, error) {
	var (
		zone        models.Zone
		description sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, reserve_id, name, description, is_active
		FROM zones
		WHERE id = $1
	`, id).Scan(&zone.ID, &zone.ReserveID, &zone.Name, &description, &zone.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	zone.Description = description.String
	return &zone, nil
}

func (r *postgresRepository) ListZones(ctx context.Context, reserveID string) ([]*models.Zone, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reserve_id, name, description, is_active
		FROM zones
		WHERE reserve_id = $1
		ORDER BY name, id
	`, reserveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	zones := []*models.Zone{}
	for rows.Next() {
		var (
			zone        models.Zone
			description sql.NullString
		)
		if err := rows.Scan(&zone.ID, &zone.ReserveID, &zone.Name, &description, &zone.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zone.Description = description.String
		zones = append(zones, &zone)
	}
	return zones, rows.Err()
}

func (r *postgresRepository) SetZoneActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE zones SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update zone: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrZoneNotFound
	}
	return nil
}
