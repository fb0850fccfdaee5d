package repository

import (
	"context"
	"errors"

	"hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

var (
	ErrQuotaNotFound  = errors.New("quota row not found")
	ErrQuotaExhausted = errors.New("quota exhausted")
	ErrDuplicateQuota = errors.New("an active quota already exists for this combination")
)

type QuotaRepository interface {
	// GetRemaining returns total - harvested of the active row, unclamped.
	GetRemaining(ctx context.Context, key models.Key) (int, error)
	// RecordHarvestTx adds delta only if the row stays within its total.
	RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) (*models.Quota, error)
	RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) error
	BulkReplace(ctx context.Context, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error)
	BulkReplaceTx(ctx context.Context, tx postgres.Transaction, reserveID, hunterGroup, species string, rows []*models.Quota) ([]*models.Quota, error)

	GetByID(ctx context.Context, id int64, group bool) (*models.Quota, error)
	List(ctx context.Context, reserveID, season string, group bool) ([]*models.Quota, error)
	SetActive(ctx context.Context, id int64, group bool, active bool) error
}
