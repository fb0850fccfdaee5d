package repository

import (
	"context"
	"errors"

	"hunting-reserve-backend/internal/features/rule/models"
)

var ErrRuleNotFound = errors.New("rule not found")

type RuleRepository interface {
	// ListActive returns active rules in insertion order, optionally of one
	// type ("" for all).
	ListActive(ctx context.Context, reserveID string, ruleType models.RuleType) ([]*models.Rule, error)
	List(ctx context.Context, reserveID string) ([]*models.Rule, error)
	GetByID(ctx context.Context, id int64) (*models.Rule, error)
	Create(ctx context.Context, rule *models.Rule) error
	Update(ctx context.Context, rule *models.Rule) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
}
