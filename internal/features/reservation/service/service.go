package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/domain/wildlife"
	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	quotamodels "hunting-reserve-backend/internal/features/quota/models"
	reservemodels "hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/features/reservation/eligibility"
	"hunting-reserve-backend/internal/features/reservation/models"
	"hunting-reserve-backend/internal/features/reservation/repository"
	rulemodels "hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/platform/postgres"
	"hunting-reserve-backend/internal/utils/calendar"
	"hunting-reserve-backend/internal/utils/clock"
)

type ReservationService interface {
	// Check runs the eligibility checks without booking anything.
	Check(ctx context.Context, hunterID int64, req *models.ReservationRequest) (*models.Decision, error)
	Create(ctx context.Context, hunterID int64, req *models.ReservationRequest) (*models.Reservation, error)
	Get(ctx context.Context, id int64) (*models.Reservation, error)
	// Cancel is allowed to the owner, or to any admin when admin is set.
	Cancel(ctx context.Context, id, hunterID int64, admin bool) (*models.Reservation, error)
	ListMine(ctx context.Context, hunterID int64, q *models.ListQuery) ([]*models.Reservation, error)
	ListByReserve(ctx context.Context, reserveID string, q *models.ListQuery) ([]*models.Reservation, error)

	SubmitReport(ctx context.Context, reservationID, hunterID int64, req *models.ReportRequest) (*models.HuntReport, error)
	GetReport(ctx context.Context, id int64) (*models.HuntReport, error)
	DeleteReport(ctx context.Context, id int64) error

	Hold(ctx context.Context, hunterID int64, req *models.HoldRequest) (*models.Hold, error)
	Release(ctx context.Context, hunterID int64, req *models.HoldRequest) error
}

type Options struct {
	Location *time.Location
	HoldTTL  time.Duration
	Clock    clock.Clock
}

type reservationService struct {
	repo       repository.ReservationRepository
	holds      repository.HoldRepository
	transactor postgres.Transactor
	quotas     QuotaLedger
	rules      RuleSource
	reserves   ReserveSource
	hunters    HunterSource
	opts       Options
	log        zerolog.Logger
}

// NewReservationService wires the booking flow. holds may be nil, in which
// case holds are neither offered nor enforced.
func NewReservationService(
	repo repository.ReservationRepository,
	holds repository.HoldRepository,
	transactor postgres.Transactor,
	quotas QuotaLedger,
	rules RuleSource,
	reserves ReserveSource,
	hunters HunterSource,
	opts Options,
) ReservationService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.HoldTTL <= 0 {
		opts.HoldTTL = 10 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	return &reservationService{
		repo:       repo,
		holds:      holds,
		transactor: transactor,
		quotas:     quotas,
		rules:      rules,
		reserves:   reserves,
		hunters:    hunters,
		opts:       opts,
		log:        logger.Component("reservation"),
	}
}

// booking is a validated ReservationRequest with everything Evaluate needs.
type booking struct {
	hunter   *huntermodels.Hunter
	zone     *reservemodels.Zone
	settings *reservemodels.Settings
	snapshot *eligibility.Snapshot
}

func (s *reservationService) Check(ctx context.Context, hunterID int64, req *models.ReservationRequest) (*models.Decision, error) {
	b, err := s.prepare(ctx, hunterID, req)
	if err != nil {
		return nil, err
	}

	result, err := eligibility.Evaluate(b.snapshot, s.opts.Clock.Now())
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.IsDenial() {
			return &models.Decision{
				Allowed: false,
				Code:    string(appErr.Code),
				Message: appErr.Message,
				Details: appErr.Details,
			}, nil
		}
		return nil, err
	}
	return &models.Decision{Allowed: true, UsesBonus: result.UsesBonus}, nil
}

func (s *reservationService) Create(ctx context.Context, hunterID int64, req *models.ReservationRequest) (*models.Reservation, error) {
	b, err := s.prepare(ctx, hunterID, req)
	if err != nil {
		return nil, err
	}

	result, err := eligibility.Evaluate(b.snapshot, s.opts.Clock.Now())
	if err != nil {
		s.log.Info().Int64("hunter_id", hunterID).Int64("zone_id", req.ZoneID).
			Str("hunt_date", req.HuntDate).Err(err).Msg("Reservation denied")
		return nil, err
	}

	snap := b.snapshot
	if err := s.checkHolds(ctx, hunterID, b); err != nil {
		return nil, err
	}

	res := &models.Reservation{
		HunterID:  hunterID,
		ZoneID:    b.zone.ID,
		ReserveID: b.zone.ReserveID,
		HuntDate:  snap.HuntDate,
		TimeSlot:  snap.TimeSlot,
		UsesBonus: result.UsesBonus,
	}
	if snap.TargetSpecies != "" {
		res.TargetSpecies = &snap.TargetSpecies
	}
	if snap.TargetCategory != "" {
		res.TargetCategory = &snap.TargetCategory
	}

	if err := s.repo.Create(ctx, res); err != nil {
		if stderrors.Is(err, repository.ErrSlotTaken) {
			return nil, errors.NewZoneSlotTakenError(res.ZoneID, res.HuntDate, string(res.TimeSlot))
		}
		return nil, errors.NewDatabaseError("create reservation", err)
	}
	s.releaseOwnHolds(ctx, hunterID, b)

	s.log.Info().
		Int64("reservation_id", res.ID).
		Int64("hunter_id", hunterID).
		Int64("zone_id", res.ZoneID).
		Str("hunt_date", req.HuntDate).
		Str("time_slot", string(res.TimeSlot)).
		Bool("uses_bonus", res.UsesBonus).
		Msg("Reservation created")

	return res, nil
}

// prepare validates req and assembles the eligibility snapshot.
func (s *reservationService) prepare(ctx context.Context, hunterID int64, req *models.ReservationRequest) (*booking, error) {
	hunter, err := s.hunters.GetActive(ctx, hunterID)
	if err != nil {
		return nil, err
	}
	zone, err := s.reserves.GetZone(ctx, req.ZoneID)
	if err != nil {
		return nil, err
	}
	if zone.ReserveID != hunter.ReserveID {
		return nil, errors.NewForbiddenError("zone belongs to another reserve")
	}
	if !zone.IsActive {
		return nil, errors.NewValidationError("zone_id", "zone is not active")
	}

	settings, err := s.reserves.GetSettings(ctx, zone.ReserveID)
	if err != nil {
		return nil, err
	}

	loc := s.opts.Location
	huntDate, err := time.ParseInLocation(models.DateLayout, req.HuntDate, loc)
	if err != nil {
		return nil, errors.NewValidationError("hunt_date", "must be YYYY-MM-DD")
	}
	slot := models.TimeSlot(req.TimeSlot)

	species, category, err := targetOf(req)
	if err != nil {
		return nil, err
	}

	snap := &eligibility.Snapshot{
		ZoneID:         zone.ID,
		HuntDate:       huntDate,
		TimeSlot:       slot,
		TargetSpecies:  species,
		TargetCategory: category,
		Settings:       settings,
		Location:       loc,
	}

	if snap.ZoneBookings, err = s.repo.ListActiveOnZone(ctx, zone.ID, huntDate); err != nil {
		return nil, errors.NewDatabaseError("list zone reservations", err)
	}
	for _, r := range snap.ZoneBookings {
		r.HuntDate = inLocation(r.HuntDate, loc)
	}

	if snap.LastZoneBooking, err = s.repo.LastOnZone(ctx, hunterID, zone.ID); err != nil {
		return nil, errors.NewDatabaseError("get last zone reservation", err)
	}
	if snap.LastZoneBooking != nil {
		snap.LastZoneBooking.HuntDate = inLocation(snap.LastZoneBooking.HuntDate, loc)
	}

	if snap.CooldownRules, err = s.rules.ListActiveRules(ctx, zone.ReserveID, rulemodels.RuleTypeZoneCooldown); err != nil {
		return nil, err
	}

	if species != "" {
		if snap.HarvestRules, err = s.rules.ListActiveRules(ctx, zone.ReserveID, rulemodels.RuleTypeHarvestLimit); err != nil {
			return nil, err
		}
		since := earliestPeriodStart(s.opts.Clock.Now().In(loc), settings)
		if snap.Harvests, err = s.repo.ListHarvests(ctx, hunterID, species, since); err != nil {
			return nil, errors.NewDatabaseError("list harvests", err)
		}
		for i := range snap.Harvests {
			snap.Harvests[i].HuntDate = inLocation(snap.Harvests[i].HuntDate, loc)
		}
	}

	if species != "" && category != "" {
		key := quotaKey(settings, hunter, species, category)
		available, err := s.quotas.GetAvailable(ctx, key)
		switch {
		case errors.HasCode(err, errors.ErrCodeQuotaRowNotFound):
			available = 0
		case err != nil:
			return nil, err
		}
		snap.QuotaAvailable = &available
	}

	return &booking{hunter: hunter, zone: zone, settings: settings, snapshot: snap}, nil
}

func targetOf(req *models.ReservationRequest) (species, category string, err error) {
	if req.TargetSpecies != nil {
		species = strings.TrimSpace(*req.TargetSpecies)
	}
	if req.TargetCategory != nil {
		category = strings.TrimSpace(*req.TargetCategory)
	}
	if category == "" {
		return species, "", nil
	}
	if species == "" {
		return "", "", errors.NewValidationError("target_category", "requires target_species")
	}
	normalized := wildlife.NormalizeCategory(species, category)
	if normalized == "" {
		return "", "", errors.NewValidationError("target_category", "unknown category for "+species)
	}
	return species, normalized, nil
}

// earliestPeriodStart is the oldest harvest date any harvest cap can look at.
func earliestPeriodStart(now time.Time, settings *reservemodels.Settings) time.Time {
	start, err := calendar.ParseMonthDay(settings.SeasonStart)
	if err != nil {
		start = calendar.MustMonthDay(reservemodels.DefaultSeasonStart)
	}
	since := calendar.SeasonStart(now, start)
	for _, t := range []time.Time{calendar.StartOfWeek(now), calendar.StartOfMonth(now)} {
		if t.Before(since) {
			since = t
		}
	}
	return since
}

// inLocation reinterprets a DATE column, returned as UTC midnight, as
// midnight in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// quotaKey selects the hunter's group partition when the reserve uses one.
func quotaKey(settings *reservemodels.Settings, hunter *huntermodels.Hunter, species, category string) quotamodels.Key {
	key := quotamodels.Key{ReserveID: settings.ReserveID, Species: species, Category: category}
	if settings.GroupQuotasEnabled && hunter.HunterGroup != "" {
		key.HunterGroup = hunter.HunterGroup
	}
	return key
}

// harvestKeys lists the ledgers a harvest is booked against: the regional
// row always, and the group row when the reserve partitions per group.
func harvestKeys(settings *reservemodels.Settings, hunter *huntermodels.Hunter, species, category string) []quotamodels.Key {
	regional := quotamodels.Key{ReserveID: settings.ReserveID, Species: species, Category: category}
	keys := []quotamodels.Key{regional}
	if group := quotaKey(settings, hunter, species, category); group.IsGroup() {
		keys = append(keys, group)
	}
	return keys
}

func (s *reservationService) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get reservation", id)
	}
	res.HuntDate = inLocation(res.HuntDate, s.opts.Location)
	return res, nil
}

func (s *reservationService) Cancel(ctx context.Context, id, hunterID int64, admin bool) (*models.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.HunterID != hunterID && !admin {
		return nil, errors.NewForbiddenError("only the owner can cancel this reservation")
	}

	if err := s.repo.UpdateStatus(ctx, id, models.StatusActive, models.StatusCancelled); err != nil {
		return nil, s.translate(err, "cancel reservation", id)
	}
	res.Status = models.StatusCancelled

	s.log.Info().Int64("reservation_id", id).Int64("by_hunter_id", hunterID).Msg("Reservation cancelled")
	return res, nil
}

func (s *reservationService) ListMine(ctx context.Context, hunterID int64, q *models.ListQuery) ([]*models.Reservation, error) {
	list, err := s.repo.ListByHunter(ctx, hunterID, q)
	if err != nil {
		return nil, errors.NewDatabaseError("list reservations", err)
	}
	return s.localize(list), nil
}

func (s *reservationService) ListByReserve(ctx context.Context, reserveID string, q *models.ListQuery) ([]*models.Reservation, error) {
	list, err := s.repo.ListByReserve(ctx, reserveID, q)
	if err != nil {
		return nil, errors.NewDatabaseError("list reservations", err)
	}
	return s.localize(list), nil
}

func (s *reservationService) localize(list []*models.Reservation) []*models.Reservation {
	if list == nil {
		return []*models.Reservation{}
	}
	for _, r := range list {
		r.HuntDate = inLocation(r.HuntDate, s.opts.Location)
	}
	return list
}

func (s *reservationService) translate(err error, op string, id int64) error {
	switch {
	case stderrors.Is(err, repository.ErrReservationNotFound):
		return errors.NewNotFoundError("reservation", id)
	case stderrors.Is(err, repository.ErrReportNotFound):
		return errors.NewNotFoundError("hunt report", id)
	case stderrors.Is(err, repository.ErrStatusConflict):
		return errors.NewConflictError("reservation", "reservation is not active")
	case stderrors.Is(err, repository.ErrDuplicateReport):
		return errors.NewConflictError("hunt report", "reservation already has a report")
	default:
		return errors.NewDatabaseError(op, err)
	}
}
