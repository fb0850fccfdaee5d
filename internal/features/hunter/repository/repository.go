package repository

import (
	"context"
	"errors"

	"hunting-reserve-backend/internal/features/hunter/models"
)

var ErrHunterNotFound = errors.New("hunter not found")

type HunterRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Hunter, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Hunter, error)
	ListByReserve(ctx context.Context, reserveID string) ([]*models.Hunter, error)
	Update(ctx context.Context, hunter *models.Hunter) error
	SetActive(ctx context.Context, id int64, active bool) error
}
