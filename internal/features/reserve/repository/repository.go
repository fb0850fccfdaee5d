package repository

import (
	"context"
	"errors"

	"hunting-reserve-backend/internal/features/reserve/models"
)

var (
	ErrReserveNotFound = errors.New("reserve not found")
	ErrZoneNotFound    = errors.New("zone not found")
)

type ReserveRepository interface {
	// Create stores the reserve together with its default settings row.
	Create(ctx context.Context, reserve *models.Reserve) error
	GetByID(ctx context.Context, id string) (*models.Reserve, error)
	List(ctx context.Context) ([]*models.Reserve, error)

	GetSettings(ctx context.Context, reserveID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error

	CreateZone(ctx context.Context, zone *models.Zone) error
	GetZone(ctx context.Context, id int64) (*models.Zone, error)
	ListZones(ctx context.Context, reserveID string) ([]*models.Zone, error)
	SetZoneActive(ctx context.Context, id int64, active bool) error
}
