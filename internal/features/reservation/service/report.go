package service

import (
	"context"
	"encoding/json"
	"strings"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/domain/wildlife"
	quotamodels "hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/features/reservation/models"
)

// SubmitReport stores the outcome of a hunt. On a harvest the quota ledgers
// are decremented in the same transaction, so an exhausted quota leaves no
// report behind.
func (s *reservationService) SubmitReport(ctx context.Context, reservationID, hunterID int64, req *models.ReportRequest) (*models.HuntReport, error) {
	res, err := s.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.HunterID != hunterID {
		return nil, errors.NewForbiddenError("only the owner can report this reservation")
	}
	if res.Status != models.StatusActive {
		return nil, errors.NewConflictError("reservation", "reservation is not active")
	}
	if len(req.Biometrics) > 0 && !json.Valid(req.Biometrics) {
		return nil, errors.NewValidationError("biometrics", "must be valid JSON")
	}

	report := &models.HuntReport{
		ReservationID: res.ID,
		ReserveID:     res.ReserveID,
		HunterID:      hunterID,
		Outcome:       models.Outcome(req.Outcome),
		Sex:           req.Sex,
		AgeClass:      req.AgeClass,
		KillCardPhoto: req.KillCardPhoto,
		Biometrics:    req.Biometrics,
		Notes:         req.Notes,
		HuntDate:      res.HuntDate,
	}

	var keys []quotamodels.Key
	if report.Outcome == models.OutcomeHarvest {
		species, category, err := harvestTarget(req, res)
		if err != nil {
			return nil, err
		}
		report.Species = &species
		report.Category = &category
		report.UsesBonus = res.UsesBonus

		hunter, err := s.hunters.Get(ctx, hunterID)
		if err != nil {
			return nil, err
		}
		settings, err := s.reserves.GetSettings(ctx, res.ReserveID)
		if err != nil {
			return nil, err
		}
		keys = harvestKeys(settings, hunter, species, category)
		for _, key := range keys {
			if key.IsGroup() {
				group := key.HunterGroup
				report.HunterGroup = &group
			}
		}
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("begin report transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.repo.CreateReportTx(ctx, tx, report); err != nil {
		return nil, s.translate(err, "create hunt report", reservationID)
	}
	if err := s.repo.UpdateStatusTx(ctx, tx, res.ID, models.StatusActive, models.StatusCompleted); err != nil {
		return nil, s.translate(err, "complete reservation", reservationID)
	}
	for _, key := range keys {
		if _, err := s.quotas.RecordHarvestTx(ctx, tx, key, 1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTransactionFailed, "Failed to commit hunt report")
	}
	if len(keys) > 0 {
		s.quotas.InvalidateCache(ctx, res.ReserveID)
	}

	event := s.log.Info().
		Int64("report_id", report.ID).
		Int64("reservation_id", res.ID).
		Int64("hunter_id", hunterID).
		Str("outcome", string(report.Outcome))
	if report.Species != nil {
		event = event.Str("species", *report.Species).Str("category", *report.Category).Bool("uses_bonus", report.UsesBonus)
	}
	event.Msg("Hunt report submitted")

	return report, nil
}

// harvestTarget resolves the harvested species and category, falling back to
// the reservation's declared target.
func harvestTarget(req *models.ReportRequest, res *models.Reservation) (string, string, error) {
	species := firstNonEmpty(req.Species, res.TargetSpecies)
	category := firstNonEmpty(req.Category, res.TargetCategory)
	if species == "" {
		return "", "", errors.NewValidationError("species", "required for a harvest")
	}
	if !wildlife.IsSpecies(species) {
		return "", "", errors.NewValidationError("species", "unknown species")
	}
	if category == "" {
		return "", "", errors.NewValidationError("category", "required for a harvest")
	}
	normalized := wildlife.NormalizeCategory(species, category)
	if normalized == "" {
		return "", "", errors.NewValidationError("category", "unknown category for "+species)
	}
	return species, normalized, nil
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return ""
}

func (s *reservationService) GetReport(ctx context.Context, id int64) (*models.HuntReport, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get hunt report", id)
	}
	report.HuntDate = inLocation(report.HuntDate, s.opts.Location)
	return report, nil
}

// DeleteReport removes a report, gives a harvest back to the ledgers it was
// recorded against and reopens the reservation.
func (s *reservationService) DeleteReport(ctx context.Context, id int64) error {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}

	var keys []quotamodels.Key
	if report.Outcome == models.OutcomeHarvest && report.Species != nil && report.Category != nil {
		regional := quotamodels.Key{ReserveID: report.ReserveID, Species: *report.Species, Category: *report.Category}
		keys = append(keys, regional)
		if report.HunterGroup != nil && *report.HunterGroup != "" {
			group := regional
			group.HunterGroup = *report.HunterGroup
			keys = append(keys, group)
		}
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return errors.NewDatabaseError("begin report transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.repo.DeleteReportTx(ctx, tx, id); err != nil {
		return s.translate(err, "delete hunt report", id)
	}
	if err := s.repo.UpdateStatusTx(ctx, tx, report.ReservationID, models.StatusCompleted, models.StatusActive); err != nil {
		return s.translate(err, "reopen reservation", report.ReservationID)
	}
	for _, key := range keys {
		err := s.quotas.RestoreHarvestTx(ctx, tx, key, 1)
		switch {
		case errors.HasCode(err, errors.ErrCodeQuotaRowNotFound):
			s.log.Warn().Int64("report_id", id).Str("species", key.Species).Str("category", key.Category).
				Str("hunter_group", key.HunterGroup).Msg("No quota row to restore, skipping")
		case err != nil:
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTransactionFailed, "Failed to commit report deletion")
	}
	if len(keys) > 0 {
		s.quotas.InvalidateCache(ctx, report.ReserveID)
	}

	s.log.Info().Int64("report_id", id).Int64("reservation_id", report.ReservationID).Msg("Hunt report deleted")
	return nil
}
