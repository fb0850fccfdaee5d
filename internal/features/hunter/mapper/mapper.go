package mapper

import "hunting-reserve-backend/internal/features/hunter/models"

// ToHunterResponse maps Hunter model to HunterResponse DTO
func ToHunterResponse(h *models.Hunter) *models.HunterResponse {
	return &models.HunterResponse{
		ID:          h.ID,
		Email:       h.Email,
		FullName:    h.FullName(),
		Role:        h.Role,
		ReserveID:   h.ReserveID,
		IsActive:    h.IsActive,
		HunterGroup: h.HunterGroup,
		Lottery: models.LotteryProfile{
			IsSelezionatore:       h.IsSelezionatore,
			IsEsperto:             h.IsEsperto,
			PartecipatoCensimenti: h.PartecipatoCensimenti,
			IsOspite:              h.IsOspite,
		},
		CreatedAt: h.CreatedAt,
	}
}

func ToHunterResponses(hunters []*models.Hunter) []*models.HunterResponse {
	out := make([]*models.HunterResponse, 0, len(hunters))
	for _, h := range hunters {
		out = append(out, ToHunterResponse(h))
	}
	return out
}
