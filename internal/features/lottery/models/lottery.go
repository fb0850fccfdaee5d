package models

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type ParticipationStatus string

const (
	ParticipationRegistered ParticipationStatus = "registered"
	ParticipationWinner     ParticipationStatus = "winner"
	ParticipationExcluded   ParticipationStatus = "excluded"
)

type Lottery struct {
	ID                int64     `json:"id"`
	ReserveID         string    `json:"reserve_id"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	Species           string    `json:"species"`
	Category          *string   `json:"category,omitempty"`
	TotalSpots        int       `json:"total_spots"`
	RegistrationStart time.Time `json:"registration_start"`
	RegistrationEnd   time.Time `json:"registration_end"`
	DrawDate          time.Time `json:"draw_date"`
	Status            Status    `json:"status"`
	WinnersDrawn      bool      `json:"winners_drawn"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RegistrationOpen reports whether hunters may join or leave at now. Both
// bounds are inclusive.
func (l *Lottery) RegistrationOpen(now time.Time) bool {
	return l.Status == StatusActive && !l.WinnersDrawn &&
		!now.Before(l.RegistrationStart) && !now.After(l.RegistrationEnd)
}

// Due reports whether the auto-draw should pick the lottery up.
func (l *Lottery) Due(now time.Time) bool {
	return l.Status == StatusActive && !l.WinnersDrawn && !now.Before(l.DrawDate)
}

// Participant is a participation joined with the hunter attributes the
// ranking looks at.
type Participant struct {
	ID           int64               `json:"id"`
	LotteryID    int64               `json:"lottery_id"`
	HunterID     int64               `json:"hunter_id"`
	Status       ParticipationStatus `json:"status"`
	Position     *int                `json:"position,omitempty"`
	IsWinner     bool                `json:"is_winner"`
	RegisteredAt time.Time           `json:"registered_at"`

	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Role                  string `json:"role"`
	IsSelezionatore       bool   `json:"is_selezionatore"`
	IsEsperto             bool   `json:"is_esperto"`
	PartecipatoCensimenti bool   `json:"partecipato_censimenti"`
	IsOspite              bool   `json:"is_ospite"`
}

// Placement is the outcome of a draw for one participation.
type Placement struct {
	ParticipationID int64
	Status          ParticipationStatus
	Position        *int
}

type DrawResult struct {
	LotteryID int64          `json:"lottery_id"`
	Winners   []*Participant `json:"winners"`
	// Excluded lists ranked participants past the available spots followed
	// by those matching no tier.
	Excluded []*Participant `json:"excluded"`
	// Unranked counts participants that matched no tier.
	Unranked int `json:"unranked"`
}

type CreateLotteryRequest struct {
	Title             string    `json:"title" binding:"required,min=1,max=200"`
	Description       *string   `json:"description" binding:"omitempty,max=1000"`
	Species           string    `json:"species" binding:"required,species"`
	Category          *string   `json:"category" binding:"omitempty,max=20"`
	TotalSpots        int       `json:"total_spots" binding:"required,min=1"`
	RegistrationStart time.Time `json:"registration_start" binding:"required"`
	RegistrationEnd   time.Time `json:"registration_end" binding:"required,gtfield=RegistrationStart"`
	DrawDate          time.Time `json:"draw_date" binding:"required"`
}

type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=draft active completed"`
}
