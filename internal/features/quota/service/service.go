package service

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/cache"
	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/domain/wildlife"
	"hunting-reserve-backend/internal/features/quota/models"
	"hunting-reserve-backend/internal/features/quota/repository"
	"hunting-reserve-backend/internal/platform/postgres"
)

type QuotaService interface {
	// GetAvailable returns max(0, total - harvested) for the key. A negative
	// raw value is logged, never corrected.
	GetAvailable(ctx context.Context, key models.Key) (int, error)
	RecordHarvest(ctx context.Context, key models.Key, delta int) (*models.Quota, error)
	RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) (*models.Quota, error)
	RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) error
	BulkReplace(ctx context.Context, reserveID string, req *models.ReplaceRequest) ([]*models.QuotaResponse, error)
	SetActive(ctx context.Context, id int64, group bool, active bool) error

	Get(ctx context.Context, id int64, group bool) (*models.Quota, error)
	List(ctx context.Context, reserveID, season string, group bool) ([]*models.QuotaResponse, error)
	ImportCSV(ctx context.Context, reserveID, season string, r io.Reader) (*models.ImportResult, error)
	// InvalidateCache drops the cached lists of reserveID after an external
	// ledger change.
	InvalidateCache(ctx context.Context, reserveID string)
}

type quotaService struct {
	repo       repository.QuotaRepository
	transactor postgres.Transactor
	cache      *cache.CacheService
	log        zerolog.Logger
}

// NewQuotaService builds the ledger service. cache may be nil.
func NewQuotaService(repo repository.QuotaRepository, transactor postgres.Transactor, cache *cache.CacheService) QuotaService {
	return &quotaService{
		repo:       repo,
		transactor: transactor,
		cache:      cache,
		log:        logger.Component("quota"),
	}
}

func normalizeKey(key models.Key) models.Key {
	if c := wildlife.NormalizeCategory(key.Species, key.Category); c != "" {
		key.Category = c
	}
	return key
}

func (s *quotaService) GetAvailable(ctx context.Context, key models.Key) (int, error) {
	key = normalizeKey(key)
	remaining, err := s.repo.GetRemaining(ctx, key)
	if err != nil {
		return 0, s.translate(err, key)
	}
	if remaining < 0 {
		s.log.Warn().
			Str("reserve_id", key.ReserveID).
			Str("hunter_group", key.HunterGroup).
			Str("species", key.Species).
			Str("category", key.Category).
			Int("remaining", remaining).
			Msg("quota invariant violated")
		return 0, nil
	}
	return remaining, nil
}

func (s *quotaService) RecordHarvest(ctx context.Context, key models.Key, delta int) (*models.Quota, error) {
	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTransactionFailed, "Failed to begin transaction")
	}
	defer tx.Rollback()

	quota, err := s.RecordHarvestTx(ctx, tx, key, delta)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTransactionFailed, "Failed to commit harvest")
	}
	s.InvalidateCache(ctx, key.ReserveID)
	return quota, nil
}

func (s *quotaService) RecordHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) (*models.Quota, error) {
	if delta <= 0 {
		return nil, errors.NewValidationError("delta", "must be positive")
	}
	key = normalizeKey(key)

	quota, err := s.repo.RecordHarvestTx(ctx, tx, key, delta)
	if err != nil {
		return nil, s.translate(err, key)
	}

	s.log.Info().
		Str("reserve_id", key.ReserveID).
		Str("hunter_group", key.HunterGroup).
		Str("species", key.Species).
		Str("category", key.Category).
		Int("harvested", quota.Harvested).
		Int("total", quota.TotalQuota).
		Msg("Harvest recorded")
	return quota, nil
}

func (s *quotaService) RestoreHarvestTx(ctx context.Context, tx postgres.Transaction, key models.Key, delta int) error {
	key = normalizeKey(key)
	if err := s.repo.RestoreHarvestTx(ctx, tx, key, delta); err != nil {
		return s.translate(err, key)
	}
	return nil
}

func (s *quotaService) BulkReplace(ctx context.Context, reserveID string, req *models.ReplaceRequest) ([]*models.QuotaResponse, error) {
	rows, err := replacementRows(req)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.BulkReplace(ctx, reserveID, req.HunterGroup, req.Species, rows)
	if err != nil {
		return nil, replaceError(err)
	}
	s.InvalidateCache(ctx, reserveID)

	s.log.Info().
		Str("reserve_id", reserveID).
		Str("hunter_group", req.HunterGroup).
		Str("species", req.Species).
		Str("season", req.Season).
		Int("rows", len(saved)).
		Msg("Quotas replaced")

	out := make([]*models.QuotaResponse, 0, len(saved))
	for _, q := range saved {
		out = append(out, models.NewQuotaResponse(q))
	}
	return out, nil
}

// replacementRows validates the categories of req and builds the rows to insert.
func replacementRows(req *models.ReplaceRequest) ([]*models.Quota, error) {
	rows := make([]*models.Quota, 0, len(req.Quotas))
	seen := make(map[string]bool, len(req.Quotas))
	for _, cq := range req.Quotas {
		category := wildlife.NormalizeCategory(req.Species, cq.Category)
		if category == "" {
			return nil, errors.NewValidationError("category", cq.Category+" is not a category of "+req.Species)
		}
		if seen[category] {
			return nil, errors.NewValidationError("category", category+" listed twice")
		}
		seen[category] = true

		rows = append(rows, &models.Quota{
			Category:         category,
			TotalQuota:       cq.TotalQuota,
			Season:           req.Season,
			Notes:            cq.Notes,
			HuntingStartDate: req.HuntingStartDate,
			HuntingEndDate:   req.HuntingEndDate,
		})
	}
	return rows, nil
}

func replaceError(err error) error {
	if stderrors.Is(err, repository.ErrDuplicateQuota) {
		return errors.NewConflictError("quota", err.Error())
	}
	return errors.NewDatabaseError("replace quotas", err)
}

func (s *quotaService) SetActive(ctx context.Context, id int64, group bool, active bool) error {
	quota, err := s.Get(ctx, id, group)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, group, active); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateQuota) {
			return errors.NewConflictError("quota", err.Error())
		}
		return s.translate(err, models.Key{ReserveID: quota.ReserveID, Species: quota.Species, Category: quota.Category})
	}
	s.InvalidateCache(ctx, quota.ReserveID)
	return nil
}

func (s *quotaService) Get(ctx context.Context, id int64, group bool) (*models.Quota, error) {
	quota, err := s.repo.GetByID(ctx, id, group)
	if err != nil {
		if stderrors.Is(err, repository.ErrQuotaNotFound) {
			return nil, errors.NewNotFoundError("quota", id)
		}
		return nil, errors.NewDatabaseError("get quota", err)
	}
	return quota, nil
}

func (s *quotaService) List(ctx context.Context, reserveID, season string, group bool) ([]*models.QuotaResponse, error) {
	load := func() (interface{}, error) {
		quotas, err := s.repo.List(ctx, reserveID, season, group)
		if err != nil {
			return nil, err
		}
		out := make([]*models.QuotaResponse, 0, len(quotas))
		for _, q := range quotas {
			if q.Remaining() < 0 {
				s.log.Warn().Int64("quota_id", q.ID).Int("remaining", q.Remaining()).Msg("quota invariant violated")
			}
			out = append(out, models.NewQuotaResponse(q))
		}
		return out, nil
	}

	// Only the unfiltered list is cached.
	if s.cache == nil || season != "" {
		v, err := load()
		if err != nil {
			return nil, errors.NewDatabaseError("list quotas", err)
		}
		return v.([]*models.QuotaResponse), nil
	}

	key := cache.QuotaListKey(reserveID)
	if group {
		key = cache.GroupQuotaListKey(reserveID)
	}
	var out []*models.QuotaResponse
	if err := s.cache.GetOrSet(ctx, key, &out, cache.QuotaListTTL, load); err != nil {
		return nil, errors.NewDatabaseError("list quotas", err)
	}
	return out, nil
}

func (s *quotaService) InvalidateCache(ctx context.Context, reserveID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateQuotas(ctx, reserveID); err != nil {
		s.log.Warn().Err(err).Str("reserve_id", reserveID).Msg("Failed to invalidate quota cache")
	}
}

func (s *quotaService) translate(err error, key models.Key) error {
	switch {
	case stderrors.Is(err, repository.ErrQuotaNotFound):
		return errors.NewQuotaRowNotFoundError(key.ReserveID, key.Species, key.Category)
	case stderrors.Is(err, repository.ErrQuotaExhausted):
		return errors.NewQuotaExhaustedError(key.Species, key.Category, 0)
	default:
		return errors.NewDatabaseError("quota ledger", err)
	}
}
