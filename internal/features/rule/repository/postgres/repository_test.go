package postgres

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/features/rule/repository"
	"hunting-reserve-backend/internal/platform/postgres/postgrestest"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestListActiveKeepsInsertionOrder(t *testing.T) {
	db := postgrestest.Open(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()
	reserveID := postgrestest.SeedReserve(t, db, "r1")

	cooldown := &models.Rule{ReserveID: reserveID, RuleName: "24h", RuleType: models.RuleTypeZoneCooldown, IsActive: true,
		ZoneCooldownHours: intPtr(24), ZoneCooldownTime: strPtr("06:00")}
	limit := &models.Rule{ReserveID: reserveID, RuleName: "weekly roe", RuleType: models.RuleTypeHarvestLimit, IsActive: true,
		TargetSpecies: strPtr("roe_deer"), MaxHarvestPerWeek: intPtr(1)}
	custom := &models.Rule{ReserveID: reserveID, RuleName: "note", RuleType: models.RuleTypeCustom, IsActive: false,
		CustomParameters: json.RawMessage(`{"max_guests":2}`)}

	for _, r := range []*models.Rule{cooldown, limit, custom} {
		require.NoError(t, repo.Create(ctx, r))
	}

	active, err := repo.ListActive(ctx, reserveID, "")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, cooldown.ID, active[0].ID)
	assert.Equal(t, 24, *active[0].ZoneCooldownHours)
	assert.Nil(t, active[0].TargetSpecies)

	limits, err := repo.ListActive(ctx, reserveID, models.RuleTypeHarvestLimit)
	require.NoError(t, err)
	require.Len(t, limits, 1)
	assert.Equal(t, 1, *limits[0].MaxHarvestPerWeek)

	all, err := repo.List(ctx, reserveID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.JSONEq(t, `{"max_guests":2}`, string(all[2].CustomParameters))

	require.NoError(t, repo.Delete(ctx, custom.ID))
	_, err = repo.GetByID(ctx, custom.ID)
	assert.ErrorIs(t, err, repository.ErrRuleNotFound)
}
