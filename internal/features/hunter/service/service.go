package service

import (
	"context"
	stderrors "errors"

	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/common/validation"
	"hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/hunter/repository"
)

type HunterService interface {
	Get(ctx context.Context, id int64) (*models.Hunter, error)
	// GetActive is Get that also rejects deactivated hunters.
	GetActive(ctx context.Context, id int64) (*models.Hunter, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Hunter, error)
	ListByReserve(ctx context.Context, reserveID string) ([]*models.Hunter, error)
	UpdateLotteryProfile(ctx context.Context, id int64, update *models.LotteryProfileUpdate) (*models.Hunter, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type hunterService struct {
	repo repository.HunterRepository
	log  zerolog.Logger
}

func NewHunterService(repo repository.HunterRepository) HunterService {
	return &hunterService{
		repo: repo,
		log:  logger.Component("hunter"),
	}
}

func (s *hunterService) Get(ctx context.Context, id int64) (*models.Hunter, error) {
	hunter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrHunterNotFound) {
			return nil, errors.NewHunterNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("get hunter", err)
	}
	return hunter, nil
}

func (s *hunterService) GetActive(ctx context.Context, id int64) (*models.Hunter, error) {
	hunter, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !hunter.IsActive {
		return nil, errors.New(errors.ErrCodeHunterInactive, "Hunter account is deactivated").
			WithDetail("hunter_id", id)
	}
	return hunter, nil
}

func (s *hunterService) GetByIDs(ctx context.Context, ids []int64) ([]*models.Hunter, error) {
	hunters, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewDatabaseError("get hunters", err)
	}
	return hunters, nil
}

func (s *hunterService) ListByReserve(ctx context.Context, reserveID string) ([]*models.Hunter, error) {
	hunters, err := s.repo.ListByReserve(ctx, reserveID)
	if err != nil {
		return nil, errors.NewDatabaseError("list hunters", err)
	}
	return hunters, nil
}

func (s *hunterService) UpdateLotteryProfile(ctx context.Context, id int64, update *models.LotteryProfileUpdate) (*models.Hunter, error) {
	hunter, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.IsSelezionatore != nil {
		hunter.IsSelezionatore = *update.IsSelezionatore
	}
	if update.IsEsperto != nil {
		hunter.IsEsperto = *update.IsEsperto
	}
	if update.PartecipatoCensimenti != nil {
		hunter.PartecipatoCensimenti = *update.PartecipatoCensimenti
	}
	if update.IsOspite != nil {
		hunter.IsOspite = *update.IsOspite
	}
	if update.HunterGroup != nil {
		if *update.HunterGroup != "" && !validation.IsValidHunterGroup(*update.HunterGroup) {
			return nil, errors.NewValidationError("hunter_group", "must be one of A, B, C, D")
		}
		hunter.HunterGroup = *update.HunterGroup
	}

	if err := s.repo.Update(ctx, hunter); err != nil {
		return nil, errors.NewDatabaseError("update hunter", err)
	}

	s.log.Info().Int64("hunter_id", id).
		Bool("selezionatore", hunter.IsSelezionatore).
		Bool("esperto", hunter.IsEsperto).
		Bool("censimenti", hunter.PartecipatoCensimenti).
		Bool("ospite", hunter.IsOspite).
		Str("group", hunter.HunterGroup).
		Msg("Lottery profile updated")
	return hunter, nil
}

func (s *hunterService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if stderrors.Is(err, repository.ErrHunterNotFound) {
			return errors.NewHunterNotFoundError(id)
		}
		return errors.NewDatabaseError("update hunter status", err)
	}
	return nil
}
