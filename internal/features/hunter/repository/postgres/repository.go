package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/hunter/repository"
)

const hunterColumns = `
	id, email, first_name, last_name, role, reserve_id, is_active,
	is_selezionatore, is_esperto, partecipato_censimenti, is_ospite,
	hunter_group, created_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.HunterRepository {
	return &postgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHunter(row scanner) (*models.Hunter, error) {
	var (
		h         models.Hunter
		reserveID sql.NullString
		group     sql.NullString
	)
	err := row.Scan(&h.ID, &h.Email, &h.FirstName, &h.LastName, &h.Role, &reserveID, &h.IsActive,
		&h.IsSelezionatore, &h.IsEsperto, &h.PartecipatoCensimenti, &h.IsOspite,
		&group, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	h.ReserveID = reserveID.String
	h.HunterGroup = group.String
	return &h, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Hunter, error) {
	h, err := scanHunter(r.db.QueryRowContext(ctx, `SELECT `+hunterColumns+` FROM hunters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrHunterNotFound
		}
		return nil, fmt.Errorf("failed to get hunter: %w", err)
	}
	return h, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Hunter, error) {
	if len(ids) == 0 {
		return []*models.Hunter{}, nil
	}
	return r.query(ctx, `SELECT `+hunterColumns+` FROM hunters WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

func (r *postgresRepository) ListByReserve(ctx context.Context, reserveID string) ([]*models.Hunter, error) {
	return r.query(ctx, `SELECT `+hunterColumns+` FROM hunters WHERE reserve_id = $1 ORDER BY last_name, first_name`, reserveID)
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Hunter, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hunters: %w", err)
	}
	defer rows.Close()

	hunters := []*models.Hunter{}
	for rows.Next() {
		h, err := scanHunter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hunter: %w", err)
		}
		hunters = append(hunters, h)
	}
	return hunters, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, h *models.Hunter) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE hunters
		SET first_name = $2, last_name = $3, is_selezionatore = $4, is_esperto = $5,
			partecipato_censimenti = $6, is_ospite = $7, hunter_group = NULLIF($8, '')
		WHERE id = $1
	`, h.ID, h.FirstName, h.LastName, h.IsSelezionatore, h.IsEsperto,
		h.PartecipatoCensimenti, h.IsOspite, h.HunterGroup)
	if err != nil {
		return fmt.Errorf("failed to update hunter: %w", err)
	}
	return expectOne(result)
}

func (r *postgresRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE hunters SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update hunter status: %w", err)
	}
	return expectOne(result)
}

func expectOne(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrHunterNotFound
	}
	return nil
}
