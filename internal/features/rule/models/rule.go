package models

import (
	"encoding/json"
	"time"
)

type RuleType string

const (
	RuleTypeZoneCooldown RuleType = "zone_cooldown"
	RuleTypeHarvestLimit RuleType = "harvest_limit"
	RuleTypeCustom       RuleType = "custom"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleTypeZoneCooldown, RuleTypeHarvestLimit, RuleTypeCustom:
		return true
	}
	return false
}

// Rule is a per-reserve restriction. Only the fields of its RuleType are set.
type Rule struct {
	ID        int64    `json:"id"`
	ReserveID string   `json:"reserve_id"`
	RuleName  string   `json:"rule_name"`
	RuleType  RuleType `json:"rule_type"`
	IsActive  bool     `json:"is_active"`

	ZoneCooldownHours *int    `json:"zone_cooldown_hours,omitempty"`
	ZoneCooldownTime  *string `json:"zone_cooldown_time,omitempty"`

	TargetSpecies       *string `json:"target_species,omitempty"`
	MaxHarvestPerSeason *int    `json:"max_harvest_per_season,omitempty"`
	MaxHarvestPerMonth  *int    `json:"max_harvest_per_month,omitempty"`
	MaxHarvestPerWeek   *int    `json:"max_harvest_per_week,omitempty"`
	SeasonalStartDate   *string `json:"seasonal_start_date,omitempty"`
	SeasonalEndDate     *string `json:"seasonal_end_date,omitempty"`
	BonusHarvestAllowed *int    `json:"bonus_harvest_allowed,omitempty"`

	CustomParameters json.RawMessage `json:"custom_parameters,omitempty" swaggertype:"object"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleRequest creates or fully replaces a rule.
type RuleRequest struct {
	RuleName string `json:"rule_name" binding:"required,max=200"`
	RuleType string `json:"rule_type" binding:"required,oneof=zone_cooldown harvest_limit custom"`
	IsActive *bool  `json:"is_active"`

	ZoneCooldownHours *int    `json:"zone_cooldown_hours"`
	ZoneCooldownTime  *string `json:"zone_cooldown_time" binding:"omitempty,timeofday"`

	TargetSpecies       *string `json:"target_species" binding:"omitempty,species"`
	MaxHarvestPerSeason *int    `json:"max_harvest_per_season"`
	MaxHarvestPerMonth  *int    `json:"max_harvest_per_month"`
	MaxHarvestPerWeek   *int    `json:"max_harvest_per_week"`
	SeasonalStartDate   *string `json:"seasonal_start_date" binding:"omitempty,monthday"`
	SeasonalEndDate     *string `json:"seasonal_end_date" binding:"omitempty,monthday"`
	BonusHarvestAllowed *int    `json:"bonus_harvest_allowed"`

	CustomParameters json.RawMessage `json:"custom_parameters" swaggertype:"object"`
}

type ListQuery struct {
	ActiveOnly bool   `form:"active"`
	RuleType   string `form:"type" binding:"omitempty,oneof=zone_cooldown harvest_limit custom"`
}

type ActiveUpdate struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
