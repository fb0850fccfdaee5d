package repository

import (
	"context"
	"errors"
	"time"

	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/platform/postgres"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReportNotFound      = errors.New("hunt report not found")
	ErrSlotTaken           = errors.New("zone slot already booked")
	ErrStatusConflict      = errors.New("reservation is not in the expected status")
	ErrDuplicateReport     = errors.New("reservation already has a report")
	ErrHoldTaken           = errors.New("hold owned by another hunter")
)

type ReservationRepository interface {
	// Create inserts r unless an overlapping active reservation exists on the
	// same zone and date, in which case ErrSlotTaken is returned.
	Create(ctx context.Context, r *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	// ListActiveOnZone returns active reservations of every hunter for the day.
	ListActiveOnZone(ctx context.Context, zoneID int64, huntDate time.Time) ([]*models.Reservation, error)
	// LastOnZone returns the hunter's latest active or completed reservation on
	// the zone, or nil.
	LastOnZone(ctx context.Context, hunterID, zoneID int64) (*models.Reservation, error)
	ListHarvests(ctx context.Context, hunterID int64, species string, since time.Time) ([]models.Harvest, error)
	ListByHunter(ctx context.Context, hunterID int64, q *models.ListQuery) ([]*models.Reservation, error)
	ListByReserve(ctx context.Context, reserveID string, q *models.ListQuery) ([]*models.Reservation, error)
	// UpdateStatus moves a reservation from one status to another and fails
	// with ErrStatusConflict when it is not in from.
	UpdateStatus(ctx context.Context, id int64, from, to models.Status) error

	UpdateStatusTx(ctx context.Context, tx postgres.Transaction, id int64, from, to models.Status) error
	CreateReportTx(ctx context.Context, tx postgres.Transaction, report *models.HuntReport) error
	GetReport(ctx context.Context, id int64) (*models.HuntReport, error)
	DeleteReportTx(ctx context.Context, tx postgres.Transaction, id int64) error
}

// HoldRepository keeps short-lived booking claims.
type HoldRepository interface {
	// Acquire claims key for hold.HunterID. Re-acquiring an own hold renews
	// it; a hold of another hunter yields ErrHoldTaken.
	Acquire(ctx context.Context, key string, hold *models.Hold, ttl time.Duration) error
	// Release drops key when it belongs to hunterID and reports whether it did.
	Release(ctx context.Context, key string, hunterID int64) (bool, error)
	Get(ctx context.Context, key string) (*models.Hold, error)
}
