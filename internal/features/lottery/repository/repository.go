package repository

import (
	"context"
	"errors"
	"time"

	"hunting-reserve-backend/internal/features/lottery/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

var (
	ErrLotteryNotFound        = errors.New("lottery not found")
	ErrParticipationNotFound  = errors.New("participation not found")
	ErrDuplicateParticipation = errors.New("hunter already joined")
	ErrStatusConflict         = errors.New("lottery status changed")
	ErrAlreadyLocked          = errors.New("lottery is locked")
)

type LotteryRepository interface {
	Create(ctx context.Context, lottery *models.Lottery) error
	GetByID(ctx context.Context, id int64) (*models.Lottery, error)
	ListByReserve(ctx context.Context, reserveID string, status models.Status) ([]*models.Lottery, error)
	// Activate moves a draft lottery to active.
	Activate(ctx context.Context, id int64) error
	// ListDue returns ids of active, undrawn lotteries with draw_date <= now.
	ListDue(ctx context.Context, now time.Time) ([]int64, error)

	AddParticipant(ctx context.Context, lotteryID, hunterID int64) (*models.Participant, error)
	RemoveParticipant(ctx context.Context, lotteryID, hunterID int64) error
	ListParticipants(ctx context.Context, lotteryID int64) ([]*models.Participant, error)
	ListWinners(ctx context.Context, lotteryID int64) ([]*models.Participant, error)

	// GetForUpdateTx locks the lottery row until tx ends.
	GetForUpdateTx(ctx context.Context, tx postgres.Transaction, id int64) (*models.Lottery, error)
	ListParticipantsTx(ctx context.Context, tx postgres.Transaction, lotteryID int64) ([]*models.Participant, error)
	// SaveDrawTx stores placements and marks the lottery drawn and completed.
	SaveDrawTx(ctx context.Context, tx postgres.Transaction, lotteryID int64, placements []models.Placement) error
}

// DrawLock keeps several instances from drawing the same lottery at once.
type DrawLock interface {
	Acquire(ctx context.Context, lotteryID int64, ttl time.Duration) error
	Release(ctx context.Context, lotteryID int64) error
}
