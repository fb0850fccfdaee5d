package models

import "time"

const (
	RoleHunter     = "HUNTER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

type Hunter struct {
	ID                    int64     `json:"id"`
	Email                 string    `json:"email"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	Role                  string    `json:"role"`
	ReserveID             string    `json:"reserve_id,omitempty"`
	IsActive              bool      `json:"is_active"`
	IsSelezionatore       bool      `json:"is_selezionatore"`
	IsEsperto             bool      `json:"is_esperto"`
	PartecipatoCensimenti bool      `json:"partecipato_censimenti"`
	IsOspite              bool      `json:"is_ospite"`
	HunterGroup           string    `json:"hunter_group,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

func (h *Hunter) FullName() string {
	return h.FirstName + " " + h.LastName
}

type HunterResponse struct {
	ID          int64          `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"full_name"`
	Role        string         `json:"role"`
	ReserveID   string         `json:"reserve_id,omitempty"`
	IsActive    bool           `json:"is_active"`
	HunterGroup string         `json:"hunter_group,omitempty"`
	Lottery     LotteryProfile `json:"lottery_profile"`
	CreatedAt   time.Time      `json:"created_at"`
}

type LotteryProfile struct {
	IsSelezionatore       bool `json:"is_selezionatore"`
	IsEsperto             bool `json:"is_esperto"`
	PartecipatoCensimenti bool `json:"partecipato_censimenti"`
	IsOspite              bool `json:"is_ospite"`
}

// LotteryProfileUpdate is a partial update of the lottery attributes and
// group. An empty hunter_group string clears the group.
type LotteryProfileUpdate struct {
	IsSelezionatore       *bool   `json:"is_selezionatore"`
	IsEsperto             *bool   `json:"is_esperto"`
	PartecipatoCensimenti *bool   `json:"partecipato_censimenti"`
	IsOspite              *bool   `json:"is_ospite"`
	HunterGroup           *string `json:"hunter_group"`
}

type ActiveUpdate struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
