package models

import (
	"encoding/json"
	"time"
)

type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotFullDay   TimeSlot = "full_day"
)

// Overlaps reports whether two slots on the same day collide. full_day
// collides with everything.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s == other || s == SlotFullDay || other == SlotFullDay
}

// OverlappingSlots lists the slots that collide with s.
func (s TimeSlot) OverlappingSlots() []TimeSlot {
	if s == SlotFullDay {
		return []TimeSlot{SlotMorning, SlotAfternoon, SlotFullDay}
	}
	return []TimeSlot{s, SlotFullDay}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Outcome string

const (
	OutcomeNoHarvest Outcome = "no_harvest"
	OutcomeHarvest   Outcome = "harvest"
)

const DateLayout = "2006-01-02"

type Reservation struct {
	ID             int64     `json:"id"`
	HunterID       int64     `json:"hunter_id"`
	ZoneID         int64     `json:"zone_id"`
	ReserveID      string    `json:"reserve_id"`
	HuntDate       time.Time `json:"hunt_date"`
	TimeSlot       TimeSlot  `json:"time_slot"`
	Status         Status    `json:"status"`
	TargetSpecies  *string   `json:"target_species,omitempty"`
	TargetCategory *string   `json:"target_category,omitempty"`
	UsesBonus      bool      `json:"uses_bonus"`
	CreatedAt      time.Time `json:"created_at"`
}

type HuntReport struct {
	ID            int64           `json:"id"`
	ReservationID int64           `json:"reservation_id"`
	ReserveID     string          `json:"reserve_id"`
	HunterID      int64           `json:"hunter_id"`
	Outcome       Outcome         `json:"outcome"`
	Species       *string         `json:"species,omitempty"`
	Category      *string         `json:"category,omitempty"`
	HunterGroup   *string         `json:"hunter_group,omitempty"`
	Sex           *string         `json:"sex,omitempty"`
	AgeClass      *string         `json:"age_class,omitempty"`
	KillCardPhoto *string         `json:"kill_card_photo,omitempty"`
	Biometrics    json.RawMessage `json:"biometrics,omitempty" swaggertype:"object"`
	Notes         *string         `json:"notes,omitempty"`
	HuntDate      time.Time       `json:"hunt_date"`
	UsesBonus     bool            `json:"uses_bonus"`
	ReportedAt    time.Time       `json:"reported_at"`
}

// Harvest is one harvest report as seen by the eligibility checks.
type Harvest struct {
	Species   string
	HuntDate  time.Time
	UsesBonus bool
}

type ReservationRequest struct {
	ZoneID         int64   `json:"zone_id" binding:"required,min=1"`
	HuntDate       string  `json:"hunt_date" binding:"required,datetime=2006-01-02"`
	TimeSlot       string  `json:"time_slot" binding:"required,timeslot"`
	TargetSpecies  *string `json:"target_species" binding:"omitempty,species"`
	TargetCategory *string `json:"target_category" binding:"omitempty,max=20"`
}

type ReportRequest struct {
	Outcome       string          `json:"outcome" binding:"required,oneof=no_harvest harvest"`
	Species       *string         `json:"species" binding:"omitempty,species"`
	Category      *string         `json:"category" binding:"omitempty,max=20"`
	Sex           *string         `json:"sex" binding:"omitempty,oneof=M F"`
	AgeClass      *string         `json:"age_class" binding:"omitempty,max=20"`
	KillCardPhoto *string         `json:"kill_card_photo" binding:"omitempty,max=500"`
	Biometrics    json.RawMessage `json:"biometrics" swaggertype:"object"`
	Notes         *string         `json:"notes" binding:"omitempty,max=2000"`
}

type ListQuery struct {
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,oneof=active completed cancelled"`
}

// Decision is the outcome of an eligibility check. Code and Message are
// empty when the request is allowed.
type Decision struct {
	Allowed   bool                   `json:"allowed"`
	UsesBonus bool                   `json:"uses_bonus"`
	Code      string                 `json:"code,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
