package service

import (
	"context"
	stderrors "errors"
	"time"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/domain/wildlife"
	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/features/reservation/repository"
	holdstore "hunting-reserve-backend/internal/features/reservation/repository/redis"
)

func (s *reservationService) Hold(ctx context.Context, hunterID int64, req *models.HoldRequest) (*models.Hold, error) {
	if s.holds == nil {
		return nil, errors.New(errors.ErrCodeInternal, "reservation holds are not available")
	}

	hunter, err := s.hunters.GetActive(ctx, hunterID)
	if err != nil {
		return nil, err
	}
	key, hold, err := s.holdFor(ctx, hunter.ReserveID, req)
	if err != nil {
		return nil, err
	}
	hold.HunterID = hunterID

	if err := s.holds.Acquire(ctx, key, hold, s.opts.HoldTTL); err != nil {
		if stderrors.Is(err, repository.ErrHoldTaken) {
			return nil, errors.NewConflictError("hold", "already held by another hunter")
		}
		return nil, errors.NewCacheError("acquire hold", err)
	}

	s.log.Debug().Int64("hunter_id", hunterID).Str("key", key).Msg("Hold acquired")
	return hold, nil
}

func (s *reservationService) Release(ctx context.Context, hunterID int64, req *models.HoldRequest) error {
	if s.holds == nil {
		return errors.New(errors.ErrCodeInternal, "reservation holds are not available")
	}

	hunter, err := s.hunters.GetActive(ctx, hunterID)
	if err != nil {
		return err
	}
	key, _, err := s.holdFor(ctx, hunter.ReserveID, req)
	if err != nil {
		return err
	}

	released, err := s.holds.Release(ctx, key, hunterID)
	if err != nil {
		return errors.NewCacheError("release hold", err)
	}
	if !released {
		return errors.NewNotFoundError("hold", key)
	}
	return nil
}

// holdFor validates req against the hunter's reserve and returns its key.
func (s *reservationService) holdFor(ctx context.Context, reserveID string, req *models.HoldRequest) (string, *models.Hold, error) {
	hold := &models.Hold{ReserveID: reserveID, Kind: models.HoldKind(req.Kind)}

	switch hold.Kind {
	case models.HoldZone:
		zone, err := s.reserves.GetZone(ctx, req.ZoneID)
		if err != nil {
			return "", nil, err
		}
		if zone.ReserveID != reserveID {
			return "", nil, errors.NewForbiddenError("zone belongs to another reserve")
		}
		if _, err := time.Parse(models.DateLayout, req.HuntDate); err != nil {
			return "", nil, errors.NewValidationError("hunt_date", "must be YYYY-MM-DD")
		}
		hold.ZoneID = zone.ID
		hold.HuntDate = req.HuntDate
		hold.TimeSlot = models.TimeSlot(req.TimeSlot)
		return holdstore.ZoneKey(reserveID, hold.ZoneID, hold.HuntDate, hold.TimeSlot), hold, nil

	case models.HoldSpecies:
		category := wildlife.NormalizeCategory(req.Species, req.Category)
		if category == "" {
			return "", nil, errors.NewValidationError("category", "unknown category for "+req.Species)
		}
		hold.Species = req.Species
		hold.Category = category
		return holdstore.SpeciesKey(reserveID, hold.Species, hold.Category), hold, nil
	}
	return "", nil, errors.NewValidationError("kind", "must be zone or species")
}

// bookingHoldKeys lists every hold that would conflict with b.
func bookingHoldKeys(b *booking) []string {
	day := b.snapshot.HuntDate.Format(models.DateLayout)
	var keys []string
	for _, slot := range b.snapshot.TimeSlot.OverlappingSlots() {
		keys = append(keys, holdstore.ZoneKey(b.zone.ReserveID, b.zone.ID, day, slot))
	}
	if b.snapshot.TargetSpecies != "" && b.snapshot.TargetCategory != "" {
		keys = append(keys, holdstore.SpeciesKey(b.zone.ReserveID, b.snapshot.TargetSpecies, b.snapshot.TargetCategory))
	}
	return keys
}

// checkHolds rejects a booking that collides with another hunter's hold.
func (s *reservationService) checkHolds(ctx context.Context, hunterID int64, b *booking) error {
	if s.holds == nil {
		return nil
	}
	for _, key := range bookingHoldKeys(b) {
		hold, err := s.holds.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to read hold, ignoring")
			continue
		}
		if hold != nil && hold.HunterID != hunterID {
			return errors.NewConflictError("hold", "held by another hunter until "+hold.ExpiresAt.Format(time.RFC3339))
		}
	}
	return nil
}

// releaseOwnHolds drops the hunter's holds consumed by a successful booking.
func (s *reservationService) releaseOwnHolds(ctx context.Context, hunterID int64, b *booking) {
	if s.holds == nil {
		return
	}
	for _, key := range bookingHoldKeys(b) {
		if _, err := s.holds.Release(ctx, key, hunterID); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to release hold")
		}
	}
}
