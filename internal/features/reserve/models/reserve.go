package models

import (
	"time"
)

type ManagementType string

const (
	ManagementStandardZones  ManagementType = "standard_zones"
	ManagementStandardRandom ManagementType = "standard_random"
	ManagementQuotaOnly      ManagementType = "quota_only"
	ManagementCustom         ManagementType = "custom"
)

const (
	DefaultBookingOpenHour  = 19
	DefaultBookingCloseHour = 21
	DefaultSeasonStart      = "09-01"
	DefaultSeasonEnd        = "01-31"
)

// DefaultSilenceDays are Tuesday and Friday.
var DefaultSilenceDays = []int{int(time.Tuesday), int(time.Friday)}

type Reserve struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Comune       string    `json:"comune"`
	ContactEmail string    `json:"contact_email"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Settings are the per-reserve knobs read by the eligibility evaluator.
type Settings struct {
	ReserveID            string         `json:"reserve_id"`
	SilenceDays          []int          `json:"silence_days"`
	ManagementType       ManagementType `json:"management_type"`
	BookingWindowEnabled bool           `json:"booking_window_enabled"`
	BookingOpenHour      int            `json:"booking_open_hour"`
	BookingCloseHour     int            `json:"booking_close_hour"`
	SeasonStart          string         `json:"season_start"`
	SeasonEnd            string         `json:"season_end"`
	GroupQuotasEnabled   bool           `json:"group_quotas_enabled"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func DefaultSettings(reserveID string) *Settings {
	return &Settings{
		ReserveID:        reserveID,
		SilenceDays:      append([]int(nil), DefaultSilenceDays...),
		ManagementType:   ManagementStandardZones,
		BookingOpenHour:  DefaultBookingOpenHour,
		BookingCloseHour: DefaultBookingCloseHour,
		SeasonStart:      DefaultSeasonStart,
		SeasonEnd:        DefaultSeasonEnd,
	}
}

func (s *Settings) IsSilenceDay(day time.Weekday) bool {
	for _, d := range s.SilenceDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

type Zone struct {
	ID          int64  `json:"id"`
	ReserveID   string `json:"reserve_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type CreateReserveRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Comune       string `json:"comune" binding:"required,max=200"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
}

// UpdateSettingsRequest is a partial update; nil fields keep their value.
type UpdateSettingsRequest struct {
	SilenceDays          []int   `json:"silence_days" binding:"omitempty,max=7,dive,min=0,max=6"`
	ManagementType       *string `json:"management_type" binding:"omitempty,oneof=standard_zones standard_random quota_only custom"`
	BookingWindowEnabled *bool   `json:"booking_window_enabled"`
	BookingOpenHour      *int    `json:"booking_open_hour" binding:"omitempty,min=0,max=23"`
	BookingCloseHour     *int    `json:"booking_close_hour" binding:"omitempty,min=1,max=24"`
	SeasonStart          *string `json:"season_start" binding:"omitempty,monthday"`
	SeasonEnd            *string `json:"season_end" binding:"omitempty,monthday"`
	GroupQuotasEnabled   *bool   `json:"group_quotas_enabled"`
}

type CreateZoneRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

type ActiveUpdate struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
