package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hunting-reserve-backend/internal/features/lottery/models"
	"hunting-reserve-backend/internal/features/lottery/repository"
	"hunting-reserve-backend/internal/platform/postgres"
)

const (
	lotteryColumns = `id, reserve_id, title, description, species, category, total_spots,
		registration_start, registration_end, draw_date, status, winners_drawn, created_at, updated_at`
	participantColumns = `p.id, p.lottery_id, p.hunter_id, p.status, p.position, p.is_winner, p.registered_at,
		h.first_name, h.last_name, h.role, h.is_selezionatore, h.is_esperto, h.partecipato_censimenti, h.is_ospite`

	participationUnique = "lottery_participations_lottery_hunter_uq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.LotteryRepository {
	return &postgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func scanLottery(row scanner) (*models.Lottery, error) {
	var (
		l                     models.Lottery
		description, category sql.NullString
	)
	err := row.Scan(&l.ID, &l.ReserveID, &l.Title, &description, &l.Species, &category, &l.TotalSpots,
		&l.RegistrationStart, &l.RegistrationEnd, &l.DrawDate, &l.Status, &l.WinnersDrawn, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		l.Description = &description.String
	}
	if category.Valid {
		l.Category = &category.String
	}
	return &l, nil
}

func scanParticipant(row scanner) (*models.Participant, error) {
	var (
		p        models.Participant
		position sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.LotteryID, &p.HunterID, &p.Status, &position, &p.IsWinner, &p.RegisteredAt,
		&p.FirstName, &p.LastName, &p.Role, &p.IsSelezionatore, &p.IsEsperto, &p.PartecipatoCensimenti, &p.IsOspite)
	if err != nil {
		return nil, err
	}
	if position.Valid {
		pos := int(position.Int64)
		p.Position = &pos
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, l *models.Lottery) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO lotteries (reserve_id, title, description, species, category, total_spots,
			registration_start, registration_end, draw_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, winners_drawn, created_at, updated_at
	`, l.ReserveID, l.Title, l.Description, l.Species, l.Category, l.TotalSpots,
		l.RegistrationStart, l.RegistrationEnd, l.DrawDate, string(l.Status),
	).Scan(&l.ID, &l.WinnersDrawn, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lottery: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Lottery, error) {
	l, err := scanLottery(r.db.QueryRowContext(ctx, `SELECT `+lotteryColumns+` FROM lotteries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrLotteryNotFound
		}
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) ListByReserve(ctx context.Context, reserveID string, status models.Status) ([]*models.Lottery, error) {
	query := `SELECT ` + lotteryColumns + ` FROM lotteries WHERE reserve_id = $1`
	args := []interface{}{reserveID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY draw_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lotteries: %w", err)
	}
	defer rows.Close()

	var out []*models.Lottery
	for rows.Next() {
		l, err := scanLottery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Activate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE lotteries SET status = 'active', updated_at = NOW() WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("failed to activate lottery: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrStatusConflict
}

func (r *postgresRepository) ListDue(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM lotteries
		WHERE status = 'active' AND NOT winners_drawn AND draw_date <= $1
		ORDER BY draw_date, id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due lotteries: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan lottery id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddParticipant registers a hunter unless the lottery has been drawn. The
// lottery row is share-locked, so a join racing a draw waits for it and then
// sees winners_drawn.
func (r *postgresRepository) AddParticipant(ctx context.Context, lotteryID, hunterID int64) (*models.Participant, error) {
	p := &models.Participant{LotteryID: lotteryID, HunterID: hunterID}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO lottery_participations (lottery_id, hunter_id)
		SELECT id, $2 FROM lotteries WHERE id = $1 AND NOT winners_drawn FOR SHARE
		RETURNING id, status, is_winner, registered_at
	`, lotteryID, hunterID).Scan(&p.ID, &p.Status, &p.IsWinner, &p.RegisteredAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, r.lotteryConflict(ctx, lotteryID)
		case postgres.IsUniqueViolation(err, participationUnique):
			return nil, repository.ErrDuplicateParticipation
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	return p, nil
}

// lotteryConflict tells a missing lottery apart from one in the wrong state.
func (r *postgresRepository) lotteryConflict(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM lotteries WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check lottery: %w", err)
	}
	if !exists {
		return repository.ErrLotteryNotFound
	}
	return repository.ErrStatusConflict
}

func (r *postgresRepository) RemoveParticipant(ctx context.Context, lotteryID, hunterID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM lottery_participations WHERE lottery_id = $1 AND hunter_id = $2 AND status = 'registered'`,
		lotteryID, hunterID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrParticipationNotFound
	}
	return nil
}

func (r *postgresRepository) ListParticipants(ctx context.Context, lotteryID int64) ([]*models.Participant, error) {
	return listParticipants(ctx, r.db, `WHERE p.lottery_id = $1 ORDER BY p.registered_at, p.id`, lotteryID)
}

func (r *postgresRepository) ListWinners(ctx context.Context, lotteryID int64) ([]*models.Participant, error) {
	return listParticipants(ctx, r.db, `WHERE p.lottery_id = $1 AND p.is_winner ORDER BY p.position`, lotteryID)
}

func (r *postgresRepository) ListParticipantsTx(ctx context.Context, tx postgres.Transaction, lotteryID int64) ([]*models.Participant, error) {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return nil, err
	}
	return listParticipants(ctx, sqlTx, `WHERE p.lottery_id = $1 ORDER BY p.registered_at, p.id`, lotteryID)
}

func listParticipants(ctx context.Context, db querier, where string, args ...interface{}) ([]*models.Participant, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+participantColumns+`
		FROM lottery_participations p JOIN hunters h ON h.id = p.hunter_id `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetForUpdateTx(ctx context.Context, tx postgres.Transaction, id int64) (*models.Lottery, error) {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return nil, err
	}
	l, err := scanLottery(sqlTx.QueryRowContext(ctx,
		`SELECT `+lotteryColumns+` FROM lotteries WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrLotteryNotFound
		}
		return nil, fmt.Errorf("failed to lock lottery: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) SaveDrawTx(ctx context.Context, tx postgres.Transaction, lotteryID int64, placements []models.Placement) error {
	sqlTx, err := postgres.SQLTx(tx)
	if err != nil {
		return err
	}

	stmt, err := sqlTx.PrepareContext(ctx, `
		UPDATE lottery_participations SET status = $3, position = $4, is_winner = $5
		WHERE id = $1 AND lottery_id = $2
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare placement update: %w", err)
	}
	defer stmt.Close()

	for _, p := range placements {
		var position interface{}
		if p.Position != nil {
			position = *p.Position
		}
		if _, err := stmt.ExecContext(ctx, p.ParticipationID, lotteryID, string(p.Status), position,
			p.Status == models.ParticipationWinner); err != nil {
			return fmt.Errorf("failed to save placement %d: %w", p.ParticipationID, err)
		}
	}

	result, err := sqlTx.ExecContext(ctx, `
		UPDATE lotteries SET winners_drawn = TRUE, status = 'completed', updated_at = NOW()
		WHERE id = $1 AND NOT winners_drawn
	`, lotteryID)
	if err != nil {
		return fmt.Errorf("failed to complete lottery: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrStatusConflict
	}
	return nil
}
