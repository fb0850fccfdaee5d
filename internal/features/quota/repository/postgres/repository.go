package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/features/quota/repository"
	"hunting-reserve-backend/internal/platform/postgres"
)

const (
	regionalTable = "regional_quotas"
	groupTable    = "group_quotas"

	regionalColumns = `id, reserve_id, '' AS hunter_group, species, category, total_quota, harvested,
		season, is_active, hunting_start_date, hunting_end_date, notes, created_at, updated_at`
	groupColumns = `id, reserve_id, hunter_group, species, category, total_quota, harvested,
		season, is_active, NULL::timestamptz, NULL::timestamptz, notes, created_at, updated_at`

	activeRegionalIndex = "regional_quotas_active_uq"
	activeGroupIndex    = "group_quotas_active_uq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.QuotaRepository {
	return &postgresRepository{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func tableFor(group bool) (table, columns string) {
	if group {
		return groupTable, groupColumns
	}
	return regionalTable, regionalColumns
}

// keyFilter renders the WHERE clause for key with placeholders from $1.
func keyFilter(key models.Key) (string, []interface{}) {
	if key.IsGroup() {
		return "reserve_id = $1 AND species = $2 AND category = $3 AND hunter_group = $4",
			[]interface{}{key.ReserveID, key.Species, key.Category, key.HunterGroup}
	}
	return "reserve_id = $1 AND species = $2 AND category = $3",
		[]interface{}{key.ReserveID, key.Species, key.Category}
}

func scanQuota(row scanner) (*models.Quota, error) {
	var (
		q          models.Quota
		group      sql.NullString
		start, end sql.NullTime
		notes      sql.NullString
	)
	err := row.Scan(&q.ID, &q.ReserveID, &group, &q.Species, &q.Category, &q.TotalQuota, &q.Harvested,
		&q.Season, &q.IsActive, &start, &end, &notes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.HunterGroup = group.String
	q.Notes = notes.String
	if start.Valid {
		q.HuntingStartDate = &start.Time
	}
	if end.Valid {
		q.HuntingEndDate = &end.Time
	}
	return &q, nil
}

func (r *postgresRepository) GetRemaining(ctx context.Context, key models.Key) (int, error) {
	table, _ := tableFor(key.IsGroup())
	clause, args := keyFilter(key)

	var remaining int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT total_quota - harvested FROM %s WHERE %s AND is_active`, table, clause),
		args...).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrQuotaNotFound
		}
		return 0, fmt.Errorf("failed to get quota: %w", err)
	}
	return remaining, nil
}

func (r *postgresRepository) RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) (*models.Quota, error) {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return nil, err
	}

	table, columns := tableFor(key.IsGroup())
	clause, args := keyFilter(key)
	n := len(args) + 1
	args = append(args, delta)

	// The guard and the increment are one statement, so concurrent harvests
	// can never push harvested past total_quota.
	query := fmt.Sprintf(`
		UPDATE %s
		SET harvested = harvested + $%d, updated_at = NOW()
		WHERE %s AND is_active AND harvested + $%d <= total_quota
		RETURNING %s
	`, table, n, clause, n, columns)

	quota, err := scanQuota(sqlTx.QueryRowContext(ctx, query, args...))
	if err == nil {
		return quota, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to record harvest: %w", err)
	}

	exists, err := r.activeExists(ctx, sqlTx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrQuotaNotFound
	}
	return nil, repository.ErrQuotaExhausted
}

func (r *postgresRepository) RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) error {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return err
	}

	table, _ := tableFor(key.IsGroup())
	clause, args := keyFilter(key)
	n := len(args) + 1
	args = append(args, delta)

	result, err := sqlTx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s
		SET harvested = GREATEST(harvested - $%d, 0), updated_at = NOW()
		WHERE %s AND is_active
	`, table, n, clause), args...)
	if err != nil {
		return fmt.Errorf("failed to restore harvest: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrQuotaNotFound
	}
	return nil
}

func (r *postgresRepository) activeExists(ctx context.Context, q queryer, key models.Key) (bool, error) {
	table, _ := tableFor(key.IsGroup())
	clause, args := keyFilter(key)

	var exists bool
	err := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s AND is_active)`, table, clause),
		args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check quota: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) BulkReplace(ctx context.Context, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	saved, err := replaceQuotas(ctx, tx, reserveID, hunterGroup, species, rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quotas: %w", err)
	}
	return saved, nil
}

func (r *postgresRepository) BulkReplaceTx(ctx context.Context, tx postgres.Transaction, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error) {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return nil, err
	}
	return replaceQuotas(ctx, sqlTx, reserveID, hunterGroup, species, rows)
}

// replaceQuotas deletes the active rows of reserve+species (and group) and
// inserts rows in their place with harvested reset to 0.
func replaceQuotas(ctx context.Context, tx *sql.Tx, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error) {
	group := hunterGroup != ""
	table, _ := tableFor(group)

	var err error
	if group {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE reserve_id = $1 AND hunter_group = $2 AND species = $3 AND is_active`,
			reserveID, hunterGroup, species)
	} else {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE reserve_id = $1 AND species = $2 AND is_active`,
			reserveID, species)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete quotas: %w", err)
	}

	for _, q := range rows {
		q.ReserveID, q.HunterGroup, q.Species, q.IsActive = reserveID, hunterGroup, species, true

		var row *sql.Row
		if group {
			row = tx.QueryRowContext(ctx, `
				INSERT INTO group_quotas (reserve_id, hunter_group, species, category, total_quota, harvested, season, is_active, notes)
				VALUES ($1, $2, $3, $4, $5, 0, $6, TRUE, NULLIF($7, ''))
				RETURNING id, created_at, updated_at
			`, reserveID, hunterGroup, species, q.Category, q.TotalQuota, q.Season, q.Notes)
		} else {
			row = tx.QueryRowContext(ctx, `
				INSERT INTO regional_quotas (reserve_id, species, category, total_quota, harvested, season, is_active,
					hunting_start_date, hunting_end_date, notes)
				VALUES ($1, $2, $3, $4, 0, $5, TRUE, $6, $7, NULLIF($8, ''))
				RETURNING id, created_at, updated_at
			`, reserveID, species, q.Category, q.TotalQuota, q.Season, q.HuntingStartDate, q.HuntingEndDate, q.Notes)
		}
		if err := row.Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			if postgres.IsUniqueViolation(err, activeRegionalIndex, activeGroupIndex) {
				return nil, repository.ErrDuplicateQuota
			}
			return nil, fmt.Errorf("failed to insert quota: %w", err)
		}
		q.Harvested = 0
	}
	return rows, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64, group bool) (*models.Quota, error) {
	table, columns := tableFor(group)
	q, err := scanQuota(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM `+table+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrQuotaNotFound
		}
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}
	return q, nil
}

func (r *postgresRepository) List(ctx context.Context, reserveID, season string, group bool) ([]*models.Quota, error) {
	table, columns := tableFor(group)
	order := "species, category"
	if group {
		order = "hunter_group, species, category"
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columns+`
		FROM `+table+`
		WHERE reserve_id = $1 AND ($2 = '' OR season = $2)
		ORDER BY `+order, reserveID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotas: %w", err)
	}
	defer rows.Close()

	quotas := []*models.Quota{}
	for rows.Next() {
		q, err := scanQuota(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quota: %w", err)
		}
		quotas = append(quotas, q)
	}
	return quotas, rows.Err()
}

func (r *postgresRepository) SetActive(ctx context.Context, id int64, group bool, active bool) error {
	table, _ := tableFor(group)
	result, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		if postgres.IsUniqueViolation(err, activeRegionalIndex, activeGroupIndex) {
			return repository.ErrDuplicateQuota
		}
		return fmt.Errorf("failed to update quota: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrQuotaNotFound
	}
	return nil
}
