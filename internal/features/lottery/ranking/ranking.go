// Package ranking orders lottery participants into priority tiers and
// shuffles each tier uniformly.
package ranking

import (
	huntermodels "hunting-reserve-backend/internal/features/hunter/models"
	"hunting-reserve-backend/internal/features/lottery/models"
	"hunting-reserve-backend/internal/utils/random"
)

type Tier int

const (
	TierNone Tier = iota
	TierOne
	TierTwo
	TierThree
)

// TierOf places a participant in the first tier whose predicate holds.
func TierOf(p *models.Participant) Tier {
	switch {
	case p.IsSelezionatore && p.IsEsperto && p.PartecipatoCensimenti:
		return TierOne
	case p.IsSelezionatore || p.Role == huntermodels.RoleHunter:
		return TierTwo
	case p.IsOspite:
		return TierThree
	}
	return TierNone
}

// Intn returns a uniform integer in [0, n).
type Intn func(n int) int

// CryptoIntn draws from crypto/rand.
func CryptoIntn(n int) int {
	return random.MustIntn(n)
}

// Rank returns tier one, two and three in that order, each shuffled, and
// separately the participants matching no tier. The input is not modified.
func Rank(participants []*models.Participant, intn Intn) (ranked, unranked []*models.Participant) {
	if intn == nil {
		intn = CryptoIntn
	}

	tiers := make(map[Tier][]*models.Participant, 3)
	for _, p := range participants {
		t := TierOf(p)
		if t == TierNone {
			unranked = append(unranked, p)
			continue
		}
		tiers[t] = append(tiers[t], p)
	}

	ranked = make([]*models.Participant, 0, len(participants)-len(unranked))
	for _, t := range []Tier{TierOne, TierTwo, TierThree} {
		group := tiers[t]
		random.Shuffle(group, intn)
		ranked = append(ranked, group...)
	}
	return ranked, unranked
}

// Place assigns the first spots ranked participants as winners with 1-based
// positions; everyone else is excluded.
func Place(ranked, unranked []*models.Participant, spots int) []models.Placement {
	out := make([]models.Placement, 0, len(ranked)+len(unranked))
	for i, p := range ranked {
		if i < spots {
			pos := i + 1
			out = append(out, models.Placement{ParticipationID: p.ID, Status: models.ParticipationWinner, Position: &pos})
			continue
		}
		out = append(out, models.Placement{ParticipationID: p.ID, Status: models.ParticipationExcluded})
	}
	for _, p := range unranked {
		out = append(out, models.Placement{ParticipationID: p.ID, Status: models.ParticipationExcluded})
	}
	return out
}
