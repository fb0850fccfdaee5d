package service

import (
	"encoding/json"
	"strings"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/domain/wildlife"
	"hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/utils/calendar"
)

// ValidateShape checks that rule carries exactly the fields of its type.
func ValidateShape(rule *models.Rule) error {
	t := string(rule.RuleType)
	if !rule.RuleType.Valid() {
		return errors.NewInvalidRuleShapeError(t, "unknown rule type")
	}
	if strings.TrimSpace(rule.RuleName) == "" {
		return errors.NewInvalidRuleShapeError(t, "rule_name is required")
	}

	cooldownSet := rule.ZoneCooldownHours != nil || rule.ZoneCooldownTime != nil
	harvestSet := rule.TargetSpecies != nil || rule.MaxHarvestPerSeason != nil || rule.MaxHarvestPerMonth != nil ||
		rule.MaxHarvestPerWeek != nil || rule.SeasonalStartDate != nil || rule.SeasonalEndDate != nil ||
		rule.BonusHarvestAllowed != nil
	customSet := len(rule.CustomParameters) > 0

	switch rule.RuleType {
	case models.RuleTypeZoneCooldown:
		if harvestSet || customSet {
			return errors.NewInvalidRuleShapeError(t, "only zone_cooldown_hours and zone_cooldown_time may be set")
		}
		if rule.ZoneCooldownHours == nil || *rule.ZoneCooldownHours <= 0 {
			return errors.NewInvalidRuleShapeError(t, "zone_cooldown_hours must be positive")
		}
		if rule.ZoneCooldownTime != nil {
			if _, err := calendar.ParseTimeOfDay(*rule.ZoneCooldownTime); err != nil {
				return errors.NewInvalidRuleShapeError(t, err.Error())
			}
		}

	case models.RuleTypeHarvestLimit:
		if cooldownSet || customSet {
			return errors.NewInvalidRuleShapeError(t, "cooldown and custom fields must be empty")
		}
		if rule.TargetSpecies == nil || !wildlife.IsSpecies(*rule.TargetSpecies) {
			return errors.NewInvalidRuleShapeError(t, "target_species must be a known species")
		}
		if rule.MaxHarvestPerSeason == nil && rule.MaxHarvestPerMonth == nil && rule.MaxHarvestPerWeek == nil {
			return errors.NewInvalidRuleShapeError(t, "at least one of max_harvest_per_season, max_harvest_per_month, max_harvest_per_week is required")
		}
		for _, max := range []*int{rule.MaxHarvestPerSeason, rule.MaxHarvestPerMonth, rule.MaxHarvestPerWeek} {
			if max != nil && *max < 0 {
				return errors.NewInvalidRuleShapeError(t, "harvest caps must not be negative")
			}
		}
		if (rule.SeasonalStartDate == nil) != (rule.SeasonalEndDate == nil) {
			return errors.NewInvalidRuleShapeError(t, "seasonal_start_date and seasonal_end_date go together")
		}
		for _, d := range []*string{rule.SeasonalStartDate, rule.SeasonalEndDate} {
			if d == nil {
				continue
			}
			if _, err := calendar.ParseMonthDay(*d); err != nil {
				return errors.NewInvalidRuleShapeError(t, err.Error())
			}
		}
		if rule.BonusHarvestAllowed != nil {
			if *rule.BonusHarvestAllowed < 0 {
				return errors.NewInvalidRuleShapeError(t, "bonus_harvest_allowed must not be negative")
			}
			if *rule.BonusHarvestAllowed > 0 && rule.SeasonalStartDate == nil {
				return errors.NewInvalidRuleShapeError(t, "bonus_harvest_allowed needs a seasonal window")
			}
		}

	case models.RuleTypeCustom:
		if cooldownSet || harvestSet {
			return errors.NewInvalidRuleShapeError(t, "only custom_parameters may be set")
		}
		if !customSet || !json.Valid(rule.CustomParameters) {
			return errors.NewInvalidRuleShapeError(t, "custom_parameters must be valid JSON")
		}
	}
	return nil
}
