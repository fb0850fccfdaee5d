package models

import (
	"time"
)

// Quota is one regional (HunterGroup empty) or group quota row.
type Quota struct {
	ID               int64      `json:"id"`
	ReserveID        string     `json:"reserve_id"`
	HunterGroup      string     `json:"hunter_group,omitempty"`
	Species          string     `json:"species"`
	Category         string     `json:"category"`
	TotalQuota       int        `json:"total_quota"`
	Harvested        int        `json:"harvested"`
	Season           string     `json:"season"`
	IsActive         bool       `json:"is_active"`
	HuntingStartDate *time.Time `json:"hunting_start_date,omitempty"`
	HuntingEndDate   *time.Time `json:"hunting_end_date,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Remaining is total minus harvested without clamping.
func (q *Quota) Remaining() int {
	return q.TotalQuota - q.Harvested
}

// Available is the clamped remaining count shown to users.
func (q *Quota) Available() int {
	if r := q.Remaining(); r > 0 {
		return r
	}
	return 0
}

// Key addresses a quota row. An empty HunterGroup means the regional ledger.
type Key struct {
	ReserveID   string
	HunterGroup string
	Species     string
	Category    string
}

func (k Key) IsGroup() bool {
	return k.HunterGroup != ""
}

type QuotaResponse struct {
	Quota
	Available int `json:"available"`
}

func NewQuotaResponse(q *Quota) *QuotaResponse {
	return &QuotaResponse{Quota: *q, Available: q.Available()}
}

type CategoryQuota struct {
	Category   string `json:"category" binding:"required"`
	TotalQuota int    `json:"total_quota" binding:"min=0"`
	Notes      string `json:"notes" binding:"max=2000"`
}

// ReplaceRequest swaps every active row of one species for the given ones.
type ReplaceRequest struct {
	Species          string          `json:"species" binding:"required,species"`
	Season           string          `json:"season" binding:"required,max=20"`
	HunterGroup      string          `json:"hunter_group" binding:"omitempty,huntergroup"`
	HuntingStartDate *time.Time      `json:"hunting_start_date"`
	HuntingEndDate   *time.Time      `json:"hunting_end_date"`
	Quotas           []CategoryQuota `json:"quotas" binding:"required,min=1,dive"`
}

type AvailabilityQuery struct {
	Species     string `form:"species" binding:"required,species"`
	Category    string `form:"category" binding:"required"`
	HunterGroup string `form:"hunter_group" binding:"omitempty,huntergroup"`
}

type Availability struct {
	ReserveID   string `json:"reserve_id"`
	HunterGroup string `json:"hunter_group,omitempty"`
	Species     string `json:"species"`
	Category    string `json:"category"`
	Available   int    `json:"available"`
}

type ListQuery struct {
	Season string `form:"season"`
}

type ActiveUpdate struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Correction records a species name fixed during CSV import.
type Correction struct {
	Line     int    `json:"line"`
	Input    string `json:"input"`
	Resolved string `json:"resolved"`
}

type ImportResult struct {
	Season      string         `json:"season"`
	Rows        int            `json:"rows"`
	Species     map[string]int `json:"species"`
	Corrections []Correction   `json:"corrections"`
}
