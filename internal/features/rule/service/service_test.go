package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/features/rule/repository"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListActive(ctx context.Context, reserveID string, ruleType models.RuleType) ([]*models.Rule, error) {
	args := m.Called(ctx, reserveID, ruleType)
	r, _ := args.Get(0).([]*models.Rule)
	return r, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, reserveID string) ([]*models.Rule, error) {
	args := m.Called(ctx, reserveID)
	r, _ := args.Get(0).([]*models.Rule)
	return r, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*models.Rule, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Rule)
	return r, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, rule *models.Rule) error {
	args := m.Called(ctx, rule)
	if args.Error(0) == nil {
		rule.ID = 1
	}
	return args.Error(0)
}

func (m *mockRepo) Update(ctx context.Context, rule *models.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func cooldown(hours int) *models.Rule {
	return &models.Rule{RuleName: "cooldown", RuleType: models.RuleTypeZoneCooldown, ZoneCooldownHours: intPtr(hours)}
}

func harvest() *models.Rule {
	return &models.Rule{
		RuleName:           "roe deer",
		RuleType:           models.RuleTypeHarvestLimit,
		TargetSpecies:      strPtr("roe_deer"),
		MaxHarvestPerMonth: intPtr(2),
	}
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name  string
		rule  func() *models.Rule
		valid bool
	}{
		{"cooldown ok", func() *models.Rule { return cooldown(48) }, true},
		{"cooldown with time", func() *models.Rule {
			r := cooldown(48)
			r.ZoneCooldownTime = strPtr("05:00")
			return r
		}, true},
		{"cooldown zero hours", func() *models.Rule { return cooldown(0) }, false},
		{"cooldown bad time", func() *models.Rule {
			r := cooldown(24)
			r.ZoneCooldownTime = strPtr("25:00")
			return r
		}, false},
		{"cooldown with harvest field", func() *models.Rule {
			r := cooldown(24)
			r.TargetSpecies = strPtr("roe_deer")
			return r
		}, false},
		{"harvest ok", harvest, true},
		{"harvest no caps", func() *models.Rule {
			r := harvest()
			r.MaxHarvestPerMonth = nil
			return r
		}, false},
		{"harvest unknown species", func() *models.Rule {
			r := harvest()
			r.TargetSpecies = strPtr("unicorn")
			return r
		}, false},
		{"harvest negative cap", func() *models.Rule {
			r := harvest()
			r.MaxHarvestPerWeek = intPtr(-1)
			return r
		}, false},
		{"harvest half window", func() *models.Rule {
			r := harvest()
			r.SeasonalStartDate = strPtr("09-15")
			return r
		}, false},
		{"harvest bonus with window", func() *models.Rule {
			r := harvest()
			r.SeasonalStartDate = strPtr("09-15")
			r.SeasonalEndDate = strPtr("12-31")
			r.BonusHarvestAllowed = intPtr(1)
			return r
		}, true},
		{"harvest bonus without window", func() *models.Rule {
			r := harvest()
			r.BonusHarvestAllowed = intPtr(1)
			return r
		}, false},
		{"harvest invalid month day", func() *models.Rule {
			r := harvest()
			r.SeasonalStartDate = strPtr("02-30")
			r.SeasonalEndDate = strPtr("03-01")
			return r
		}, false},
		{"custom ok", func() *models.Rule {
			return &models.Rule{RuleName: "x", RuleType: models.RuleTypeCustom, CustomParameters: json.RawMessage(`{"a":1}`)}
		}, true},
		{"custom missing params", func() *models.Rule {
			return &models.Rule{RuleName: "x", RuleType: models.RuleTypeCustom}
		}, false},
		{"unknown type", func() *models.Rule {
			return &models.Rule{RuleName: "x", RuleType: "weather"}
		}, false},
		{"blank name", func() *models.Rule {
			r := cooldown(1)
			r.RuleName = "  "
			return r
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShape(tt.rule())
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRuleShape), "got %v", err)
		})
	}
}

func TestCreateRejectsBadShapeWithoutWriting(t *testing.T) {
	repo := new(mockRepo)
	svc := NewRuleService(repo)

	_, err := svc.Create(context.Background(), "r1", &models.RuleRequest{
		RuleName: "bad", RuleType: "zone_cooldown",
	})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRuleShape))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDefaultsActive(t *testing.T) {
	repo := new(mockRepo)
	svc := NewRuleService(repo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Rule) bool {
		return r.ReserveID == "r1" && r.IsActive
	})).Return(nil)

	rule, err := svc.Create(context.Background(), "r1", &models.RuleRequest{
		RuleName: " cooldown ", RuleType: "zone_cooldown", ZoneCooldownHours: intPtr(24),
	})
	require.NoError(t, err)
	assert.Equal(t, "cooldown", rule.RuleName)
	assert.Equal(t, int64(1), rule.ID)
	repo.AssertExpectations(t)
}

func TestUpdateKeepsIdentityAndActiveFlag(t *testing.T) {
	repo := new(mockRepo)
	svc := NewRuleService(repo)
	existing := cooldown(24)
	existing.ID = 7
	existing.ReserveID = "r1"
	existing.IsActive = false

	repo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	rule, err := svc.Update(context.Background(), 7, &models.RuleRequest{
		RuleName: "cooldown", RuleType: "zone_cooldown", ZoneCooldownHours: intPtr(72),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rule.ID)
	assert.Equal(t, "r1", rule.ReserveID)
	assert.False(t, rule.IsActive)
	assert.Equal(t, 72, *rule.ZoneCooldownHours)
}

func TestNotFoundTranslation(t *testing.T) {
	repo := new(mockRepo)
	svc := NewRuleService(repo)
	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, repository.ErrRuleNotFound)
	repo.On("Delete", mock.Anything, int64(9)).Return(repository.ErrRuleNotFound)
	repo.On("SetActive", mock.Anything, int64(9), false).Return(repository.ErrRuleNotFound)

	_, err := svc.Get(context.Background(), 9)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.True(t, errors.HasCode(svc.Delete(context.Background(), 9), errors.ErrCodeNotFound))
	assert.True(t, errors.HasCode(svc.SetActive(context.Background(), 9, false), errors.ErrCodeNotFound))
}

func TestListActiveRulesPassesType(t *testing.T) {
	repo := new(mockRepo)
	svc := NewRuleService(repo)
	repo.On("ListActive", mock.Anything, "r1", models.RuleTypeHarvestLimit).Return([]*models.Rule{harvest()}, nil)

	rules, err := svc.ListActiveRules(context.Background(), "r1", models.RuleTypeHarvestLimit)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
