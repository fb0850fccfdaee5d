package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/features/rule/repository"
)

type RuleService interface {
	ListActiveRules(ctx context.Context, reserveID string, ruleType models.RuleType) ([]*models.Rule, error)
	List(ctx context.Context, reserveID string) ([]*models.Rule, error)
	Get(ctx context.Context, id int64) (*models.Rule, error)
	Create(ctx context.Context, reserveID string, req *models.RuleRequest) (*models.Rule, error)
	Update(ctx context.Context, id int64, req *models.RuleRequest) (*models.Rule, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type ruleService struct {
	repo repository.RuleRepository
	log  zerolog.Logger
}

func NewRuleService(repo repository.RuleRepository) RuleService {
	return &ruleService{
		repo: repo,
		log:  logger.Component("rule"),
	}
}

func (s *ruleService) ListActiveRules(ctx context.Context, reserveID string, ruleType models.RuleType) ([]*models.Rule, error) {
	rules, err := s.repo.ListActive(ctx, reserveID, ruleType)
	if err != nil {
		return nil, errors.NewDatabaseError("list active rules", err)
	}
	return rules, nil
}

func (s *ruleService) List(ctx context.Context, reserveID string) ([]*models.Rule, error) {
	rules, err := s.repo.List(ctx, reserveID)
	if err != nil {
		return nil, errors.NewDatabaseError("list rules", err)
	}
	return rules, nil
}

func (s *ruleService) Get(ctx context.Context, id int64) (*models.Rule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "get rule", id)
	}
	return rule, nil
}

func (s *ruleService) Create(ctx context.Context, reserveID string, req *models.RuleRequest) (*models.Rule, error) {
	rule := fromRequest(req)
	rule.ReserveID = reserveID
	if err := ValidateShape(rule); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, errors.NewDatabaseError("create rule", err)
	}

	s.log.Info().Int64("rule_id", rule.ID).Str("reserve_id", reserveID).
		Str("rule_type", string(rule.RuleType)).Msg("Rule created")
	return rule, nil
}

func (s *ruleService) Update(ctx context.Context, id int64, req *models.RuleRequest) (*models.Rule, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rule := fromRequest(req)
	rule.ID = existing.ID
	rule.ReserveID = existing.ReserveID
	rule.CreatedAt = existing.CreatedAt
	if req.IsActive == nil {
		rule.IsActive = existing.IsActive
	}
	if err := ValidateShape(rule); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, s.translate(err, "update rule", id)
	}
	return rule, nil
}

func (s *ruleService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "delete rule", id)
	}
	s.log.Info().Int64("rule_id", id).Msg("Rule deleted")
	return nil
}

func (s *ruleService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return s.translate(err, "update rule", id)
	}
	return nil
}

func (s *ruleService) translate(err error, op string, id int64) error {
	if stderrors.Is(err, repository.ErrRuleNotFound) {
		return errors.NewNotFoundError("rule", id)
	}
	return errors.NewDatabaseError(op, err)
}

func fromRequest(req *models.RuleRequest) *models.Rule {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.Rule{
		RuleName:            strings.TrimSpace(req.RuleName),
		RuleType:            models.RuleType(req.RuleType),
		IsActive:            active,
		ZoneCooldownHours:   req.ZoneCooldownHours,
		ZoneCooldownTime:    req.ZoneCooldownTime,
		TargetSpecies:       req.TargetSpecies,
		MaxHarvestPerSeason: req.MaxHarvestPerSeason,
		MaxHarvestPerMonth:  req.MaxHarvestPerMonth,
		MaxHarvestPerWeek:   req.MaxHarvestPerWeek,
		SeasonalStartDate:   req.SeasonalStartDate,
		SeasonalEndDate:     req.SeasonalEndDate,
		BonusHarvestAllowed: req.BonusHarvestAllowed,
		CustomParameters:    req.CustomParameters,
	}
}
