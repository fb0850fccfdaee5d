package ranking

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/lottery/models"
)

func expert(id int64) *models.Participant {
	return &models.Participant{ID: id, HunterID: id, Role: huntermodels.RoleHunter,
		IsSelezionatore: true, IsEsperto: true, PartecipatoCensimenti: true}
}

func plain(id int64) *models.Participant {
	return &models.Participant{ID: id, HunterID: id, Role: huntermodels.RoleHunter}
}

func guest(id int64) *models.Participant {
	return &models.Participant{ID: id, HunterID: id, Role: huntermodels.RoleAdmin, IsOspite: true}
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		name string
		p    *models.Participant
		want Tier
	}{
		{"all three flags", expert(1), TierOne},
		{"plain hunter", plain(2), TierTwo},
		{"selezionatore admin", &models.Participant{Role: huntermodels.RoleAdmin, IsSelezionatore: true}, TierTwo},
		{"esperto without censimenti", &models.Participant{Role: huntermodels.RoleHunter, IsSelezionatore: true, IsEsperto: true}, TierTwo},
		{"guest", guest(3), TierThree},
		{"hunter guest stays tier two", &models.Participant{Role: huntermodels.RoleHunter, IsOspite: true}, TierTwo},
		{"admin without flags", &models.Participant{Role: huntermodels.RoleAdmin}, TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierOf(tt.p))
		})
	}
}

func TestRankKeepsTierOrder(t *testing.T) {
	admin := &models.Participant{ID: 9, Role: huntermodels.RoleAdmin}
	input := []*models.Participant{guest(3), plain(2), admin, expert(1)}

	for i := 0; i < 50; i++ {
		ranked, unranked := Rank(input, nil)
		require.Len(t, ranked, 3)
		assert.Equal(t, int64(1), ranked[0].ID)
		assert.Equal(t, int64(2), ranked[1].ID)
		assert.Equal(t, int64(3), ranked[2].ID)
		assert.Equal(t, []*models.Participant{admin}, unranked)
	}
	assert.Equal(t, int64(3), input[0].ID, "input order untouched")
}

func TestRankShufflesUniformlyWithinTier(t *testing.T) {
	const trials = 6000
	input := []*models.Participant{expert(1), expert(2), expert(3), plain(4)}
	first := map[int64]int{}

	for i := 0; i < trials; i++ {
		ranked, _ := Rank(input, CryptoIntn)
		first[ranked[0].ID]++
		assert.Equal(t, int64(4), ranked[3].ID)
	}

	// expected 2000 each; the bound is far outside sampling noise
	for _, id := range []int64{1, 2, 3} {
		assert.InDelta(t, trials/3, first[id], 300, "participant %d", id)
	}
}

func TestRankDeterministicWithSeededSource(t *testing.T) {
	input := []*models.Participant{plain(1), plain(2), plain(3), plain(4), plain(5)}
	a, _ := Rank(input, rand.New(rand.NewSource(7)).Intn)
	b, _ := Rank(input, rand.New(rand.NewSource(7)).Intn)
	assert.Equal(t, a, b)
}

func TestPlace(t *testing.T) {
	ranked := []*models.Participant{expert(1), plain(2), plain(3)}
	unranked := []*models.Participant{{ID: 9, Role: huntermodels.RoleAdmin}}

	placements := Place(ranked, unranked, 2)
	require.Len(t, placements, 4)

	assert.Equal(t, models.ParticipationWinner, placements[0].Status)
	assert.Equal(t, 1, *placements[0].Position)
	assert.Equal(t, 2, *placements[1].Position)
	for _, p := range placements[2:] {
		assert.Equal(t, models.ParticipationExcluded, p.Status)
		assert.Nil(t, p.Position)
	}
	assert.Equal(t, int64(9), placements[3].ParticipationID)
}

func TestPlaceMoreSpotsThanParticipants(t *testing.T) {
	placements := Place([]*models.Participant{plain(1)}, nil, 5)
	require.Len(t, placements, 1)
	assert.Equal(t, models.ParticipationWinner, placements[0].Status)
}
