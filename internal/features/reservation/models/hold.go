package models

import "time"

type HoldKind string

const (
	HoldZone    HoldKind = "zone"
	HoldSpecies HoldKind = "species"
)

// Hold is a short-lived claim on a zone slot or a species/category while
// the hunter completes a booking.
type Hold struct {
	HunterID  int64     `json:"hunter_id"`
	ReserveID string    `json:"reserve_id"`
	Kind      HoldKind  `json:"kind"`
	ZoneID    int64     `json:"zone_id,omitempty"`
	HuntDate  string    `json:"hunt_date,omitempty"`
	TimeSlot  TimeSlot  `json:"time_slot,omitempty"`
	Species   string    `json:"species,omitempty"`
	Category  string    `json:"category,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type HoldRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=zone species"`
	ZoneID   int64  `json:"zone_id" binding:"required_if=Kind zone,omitempty,min=1"`
	HuntDate string `json:"hunt_date" binding:"required_if=Kind zone,omitempty,datetime=2006-01-02"`
	TimeSlot string `json:"time_slot" binding:"required_if=Kind zone,omitempty,timeslot"`
	Species  string `json:"species" binding:"required_if=Kind species,omitempty,species"`
	Category string `json:"category" binding:"required_if=Kind species,omitempty,max=20"`
}
