package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/features/reservation/repository"
	"hunting-reserve-backend/internal/platform/postgres"
)

const (
	reservationColumns = `id, hunter_id, zone_id, reserve_id, hunt_date, time_slot, status,
		target_species, target_category, uses_bonus, created_at`
	reportColumns = `id, reservation_id, reserve_id, hunter_id, outcome, species, category, hunter_group, sex, age_class,
		kill_card_photo, biometrics, notes, hunt_date, uses_bonus, reported_at`

	activeSlotIndex   = "reservations_active_slot_uq"
	reportReservation = "hunt_reports_reservation_id_key"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ReservationRepository {
	return &postgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row scanner) (*models.Reservation, error) {
	var (
		r                 models.Reservation
		species, category sql.NullString
	)
	err := row.Scan(&r.ID, &r.HunterID, &r.ZoneID, &r.ReserveID, &r.HuntDate, &r.TimeSlot, &r.Status,
		&species, &category, &r.UsesBonus, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.TargetSpecies = nullString(species)
	r.TargetCategory = nullString(category)
	return &r, nil
}

func scanReport(row scanner) (*models.HuntReport, error) {
	var (
		h                        models.HuntReport
		species, category, group sql.NullString
		sex, ageClass            sql.NullString
		photo, notes             sql.NullString
		biometrics               []byte
	)
	err := row.Scan(&h.ID, &h.ReservationID, &h.ReserveID, &h.HunterID, &h.Outcome, &species, &category,
		&group, &sex, &ageClass, &photo, &biometrics, &notes, &h.HuntDate, &h.UsesBonus, &h.ReportedAt)
	if err != nil {
		return nil, err
	}
	h.Species = nullString(species)
	h.Category = nullString(category)
	h.HunterGroup = nullString(group)
	h.Sex = nullString(sex)
	h.AgeClass = nullString(ageClass)
	h.KillCardPhoto = nullString(photo)
	h.Notes = nullString(notes)
	if len(biometrics) > 0 {
		h.Biometrics = biometrics
	}
	return &h, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func dateParam(t time.Time) string {
	return t.Format(models.DateLayout)
}

func slotParam(slot models.TimeSlot) pq.StringArray {
	slots := slot.OverlappingSlots()
	out := make(pq.StringArray, len(slots))
	for i, s := range slots {
		out[i] = string(s)
	}
	return out
}

func (r *postgresRepository) Create(ctx context.Context, res *models.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := dateParam(res.HuntDate)

	// Serialises bookings of one zone and day. The unique index only covers
	// identical slots; full_day against morning/afternoon needs the lock.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
		fmt.Sprintf("reservation:%d:%s", res.ZoneID, day)); err != nil {
		return fmt.Errorf("failed to lock zone slot: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations (hunter_id, zone_id, reserve_id, hunt_date, time_slot, status,
			target_species, target_category, uses_bonus)
		SELECT $1::bigint, $2::bigint, $3::text, $4::date, $5::text, 'active', $6::text, $7::text, $8::boolean
		WHERE NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE zone_id = $2::bigint AND hunt_date = $4::date AND status = 'active'
			AND time_slot = ANY($9::text[])
		)
		RETURNING id, status, created_at
	`, res.HunterID, res.ZoneID, res.ReserveID, day, string(res.TimeSlot),
		res.TargetSpecies, res.TargetCategory, res.UsesBonus, slotParam(res.TimeSlot),
	).Scan(&res.ID, &res.Status, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsUniqueViolation(err, activeSlotIndex) {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return res, nil
}

func (r *postgresRepository) ListActiveOnZone(ctx context.Context, zoneID int64, huntDate time.Time) ([]*models.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE zone_id = $1 AND hunt_date = $2::date AND status = 'active' ORDER BY id`,
		zoneID, dateParam(huntDate))
}

func (r *postgresRepository) LastOnZone(ctx context.Context, hunterID, zoneID int64) (*models.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE hunter_id = $1 AND zone_id = $2 AND status IN ('active', 'completed')
		ORDER BY hunt_date DESC, CASE time_slot WHEN 'morning' THEN 0 ELSE 1 END DESC, id DESC
		LIMIT 1
	`, hunterID, zoneID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last reservation: %w", err)
	}
	return res, nil
}

func (r *postgresRepository) ListHarvests(ctx context.Context, hunterID int64, species string, since time.Time) ([]models.Harvest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT species, hunt_date, uses_bonus FROM hunt_reports
		WHERE hunter_id = $1 AND outcome = 'harvest' AND species = $2 AND hunt_date >= $3::date
		ORDER BY hunt_date
	`, hunterID, species, dateParam(since))
	if err != nil {
		return nil, fmt.Errorf("failed to list harvests: %w", err)
	}
	defer rows.Close()

	var harvests []models.Harvest
	for rows.Next() {
		var h models.Harvest
		if err := rows.Scan(&h.Species, &h.HuntDate, &h.UsesBonus); err != nil {
			return nil, fmt.Errorf("failed to scan harvest: %w", err)
		}
		harvests = append(harvests, h)
	}
	return harvests, rows.Err()
}

func (r *postgresRepository) ListByHunter(ctx context.Context, hunterID int64, q *models.ListQuery) ([]*models.Reservation, error) {
	where, args := listFilter("hunter_id = $1", []interface{}{hunterID}, q)
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE `+where+
		` ORDER BY hunt_date DESC, id DESC`, args...)
}

func (r *postgresRepository) ListByReserve(ctx context.Context, reserveID string, q *models.ListQuery) ([]*models.Reservation, error) {
	where, args := listFilter("reserve_id = $1", []interface{}{reserveID}, q)
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE `+where+
		` ORDER BY hunt_date DESC, zone_id, id`, args...)
}

func listFilter(base string, args []interface{}, q *models.ListQuery) (string, []interface{}) {
	conds := []string{base}
	if q != nil && q.Date != "" {
		args = append(args, q.Date)
		conds = append(conds, fmt.Sprintf("hunt_date = $%d::date", len(args)))
	}
	if q != nil && q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var out []*models.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id int64, from, to models.Status) error {
	return updateStatus(ctx, r.db, id, from, to)
}

func (r *postgresRepository) UpdateStatusTx(ctx context.Context, tx postgres.Transaction, id int64, from, to models.Status) error {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return err
	}
	return updateStatus(ctx, sqlTx, id, from, to)
}

func updateStatus(ctx context.Context, db execer, id int64, from, to models.Status) error {
	result, err := db.ExecContext(ctx,
		`UPDATE reservations SET status = $3 WHERE id = $1 AND status = $2`, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check reservation: %w", err)
	}
	if !exists {
		return repository.ErrReservationNotFound
	}
	return repository.ErrStatusConflict
}

func (r *postgresRepository) CreateReportTx(ctx context.Context, tx postgres.Transaction, report *models.HuntReport) error {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return err
	}

	var biometrics interface{}
	if len(report.Biometrics) > 0 {
		biometrics = string(report.Biometrics)
	}

	err = sqlTx.QueryRowContext(ctx, `
		INSERT INTO hunt_reports (reservation_id, reserve_id, hunter_id, outcome, species, category, hunter_group,
			sex, age_class, kill_card_photo, biometrics, notes, hunt_date, uses_bonus)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13::date, $14)
		RETURNING id, reported_at
	`, report.ReservationID, report.ReserveID, report.HunterID, string(report.Outcome), report.Species,
		report.Category, report.HunterGroup, report.Sex, report.AgeClass, report.KillCardPhoto, biometrics, report.Notes,
		dateParam(report.HuntDate), report.UsesBonus,
	).Scan(&report.ID, &report.ReportedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, reportReservation) {
			return repository.ErrDuplicateReport
		}
		return fmt.Errorf("failed to create hunt report: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetReport(ctx context.Context, id int64) (*models.HuntReport, error) {
	report, err := scanReport(r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM hunt_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get hunt report: %w", err)
	}
	return report, nil
}

func (r *postgresRepository) DeleteReportTx(ctx context.Context, tx postgres.Transaction, id int64) error {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return err
	}
	result, err := sqlTx.ExecContext(ctx, `DELETE FROM hunt_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hunt report: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrReportNotFound
	}
	return nil
}
