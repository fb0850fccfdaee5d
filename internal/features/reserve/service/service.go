package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/cache"
	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/features/reserve/repository"
	"hunting-reserve-backend/internal/utils/calendar"
)

type ReserveService interface {
	Create(ctx context.Context, req *models.CreateReserveRequest) (*models.Reserve, error)
	Get(ctx context.Context, id string) (*models.Reserve, error)
	List(ctx context.Context) ([]*models.Reserve, error)

	GetSettings(ctx context.Context, reserveID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, reserveID string, req *models.UpdateSettingsRequest) (*models.Settings, error)

	CreateZone(ctx context.Context, reserveID string, req *models.CreateZoneRequest) (*models.Zone, error)
	GetZone(ctx context.Context, id int64) (*models.Zone, error)
	ListZones(ctx context.Context, reserveID string) ([]*models.Zone, error)
	SetZoneActive(ctx context.Context, id int64, active bool) error
}

type reserveService struct {
	repo  repository.ReserveRepository
	cache *cache.CacheService
	log   zerolog.Logger
}

// NewReserveService builds the service. cache may be nil.
func NewReserveService(repo repository.ReserveRepository, cache *cache.CacheService) ReserveService {
	return &reserveService{
		repo:  repo,
		cache: cache,
		log:   logger.Component("reserve"),
	}
}

func (s *reserveService) Create(ctx context.Context, req *models.CreateReserveRequest) (*models.Reserve, error) {
	reserve := &models.Reserve{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Comune:       strings.TrimSpace(req.Comune),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
	}
	if err := s.repo.Create(ctx, reserve); err != nil {
		return nil, errors.NewDatabaseError("create reserve", err)
	}

	s.log.Info().Str("reserve_id", reserve.ID).Str("name", reserve.Name).Msg("Reserve created")
	return reserve, nil
}

func (s *reserveService) Get(ctx context.Context, id string) (*models.Reserve, error) {
	reserve, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get reserve", id)
	}
	return reserve, nil
}

func (s *reserveService) List(ctx context.Context) ([]*models.Reserve, error) {
	reserves, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list reserves", err)
	}
	return reserves, nil
}

func (s *reserveService) GetSettings(ctx context.Context, reserveID string) (*models.Settings, error) {
	load := func() (interface{}, error) {
		return s.repo.GetSettings(ctx, reserveID)
	}

	if s.cache == nil {
		settings, err := s.repo.GetSettings(ctx, reserveID)
		if err != nil {
			return nil, s.translate(err, "get settings", reserveID)
		}
		return settings, nil
	}

	var settings models.Settings
	if err := s.cache.GetOrSet(ctx, cache.ReserveSettingsKey(reserveID), &settings, cache.ReserveSettingsTTL, load); err != nil {
		return nil, s.translate(err, "get settings", reserveID)
	}
	return &settings, nil
}

func (s *reserveService) UpdateSettings(ctx context.Context, reserveID string, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, reserveID)
	if err != nil {
		return nil, s.translate(err, "get settings", reserveID)
	}

	if req.SilenceDays != nil {
		settings.SilenceDays = dedupeDays(req.SilenceDays)
	}
	if req.ManagementType != nil {
		settings.ManagementType = models.ManagementType(*req.ManagementType)
	}
	if req.BookingWindowEnabled != nil {
		settings.BookingWindowEnabled = *req.BookingWindowEnabled
	}
	if req.BookingOpenHour != nil {
		settings.BookingOpenHour = *req.BookingOpenHour
	}
	if req.BookingCloseHour != nil {
		settings.BookingCloseHour = *req.BookingCloseHour
	}
	if req.SeasonStart != nil {
		settings.SeasonStart = *req.SeasonStart
	}
	if req.SeasonEnd != nil {
		settings.SeasonEnd = *req.SeasonEnd
	}
	if req.GroupQuotasEnabled != nil {
		settings.GroupQuotasEnabled = *req.GroupQuotasEnabled
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, s.translate(err, "update settings", reserveID)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateReserve(ctx, reserveID); err != nil {
			s.log.Warn().Err(err).Str("reserve_id", reserveID).Msg("Failed to invalidate settings cache")
		}
	}

	s.log.Info().Str("reserve_id", reserveID).Ints("silence_days", settings.SilenceDays).
		Bool("booking_window", settings.BookingWindowEnabled).Msg("Reserve settings updated")
	return settings, nil
}

func (s *reserveService) CreateZone(ctx context.Context, reserveID string, req *models.CreateZoneRequest) (*models.Zone, error) {
	if _, err := s.repo.GetByID(ctx, reserveID); err != nil {
		return nil, s.translate(err, "get reserve", reserveID)
	}

	zone := &models.Zone{
		ReserveID:   reserveID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return nil, errors.NewDatabaseError("create zone", err)
	}
	return zone, nil
}

func (s *reserveService) GetZone(ctx context.Context, id int64) (*models.Zone, error) {
	zone, err := s.repo.GetZone(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get zone", id)
	}
	return zone, nil
}

func (s *reserveService) ListZones(ctx context.Context, reserveID string) ([]*models.Zone, error) {
	zones, err := s.repo.ListZones(ctx, reserveID)
	if err != nil {
		return nil, errors.NewDatabaseError("list zones", err)
	}
	return zones, nil
}

func (s *reserveService) SetZoneActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetZoneActive(ctx, id, active); err != nil {
		return s.translate(err, "update zone", id)
	}
	return nil
}

func (s *reserveService) translate(err error, op string, id interface{}) error {
	switch {
	case stderrors.Is(err, repository.ErrReserveNotFound):
		return errors.NewReserveNotFoundError(fmt.Sprint(id))
	case stderrors.Is(err, repository.ErrZoneNotFound):
		return errors.NewNotFoundError("zone", id)
	default:
		return errors.NewDatabaseError(op, err)
	}
}

func validateSettings(s *models.Settings) error {
	if s.BookingOpenHour >= s.BookingCloseHour {
		return errors.NewValidationError("booking_open_hour", "must be before booking_close_hour")
	}
	if _, err := calendar.ParseMonthDay(s.SeasonStart); err != nil {
		return errors.NewValidationError("season_start", err.Error())
	}
	if _, err := calendar.ParseMonthDay(s.SeasonEnd); err != nil {
		return errors.NewValidationError("season_end", err.Error())
	}
	for _, d := range s.SilenceDays {
		if d < 0 || d > 6 {
			return errors.NewValidationError("silence_days", "weekday must be between 0 and 6")
		}
	}
	return nil
}

func dedupeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
