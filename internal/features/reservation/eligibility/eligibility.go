// Package eligibility decides whether a hunter may book a zone slot.
//
// Evaluate is a pure function over a Snapshot assembled by the reservation
// service, so every rule can be exercised without storage. Checks run in a
// fixed order and the first failure is returned.
package eligibility

import (
	"time"

	"hunting-reserve-backend/internal/common/errors"
	reservemodels "hunting-reserve-backend/internal/features/reserve/models"
	"hunting-reserve-backend/internal/features/reservation/models"
	rulemodels "hunting-reserve-backend/internal/features/rule/models"
	"hunting-reserve-backend/internal/utils/calendar"
)

// Snapshot is everything the checks need to know about one booking attempt.
type Snapshot struct {
	ZoneID         int64
	HuntDate       time.Time // midnight in Location
	TimeSlot       models.TimeSlot
	TargetSpecies  string
	TargetCategory string

	Settings *reservemodels.Settings
	Location *time.Location

	// Active reservations of any hunter on ZoneID and HuntDate.
	ZoneBookings []*models.Reservation
	// The hunter's latest active or completed reservation on ZoneID.
	LastZoneBooking *models.Reservation

	CooldownRules []*rulemodels.Rule
	HarvestRules  []*rulemodels.Rule
	// The hunter's harvests of TargetSpecies since the season started.
	Harvests []models.Harvest

	// Remaining quota for TargetSpecies/TargetCategory. Nil skips the check.
	QuotaAvailable *int
}

type Result struct {
	UsesBonus bool
}

// Evaluate runs the checks against now. A denial is returned as an
// *errors.AppError carrying the denial code.
func Evaluate(s *Snapshot, now time.Time) (Result, error) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	settings := s.Settings
	if settings == nil {
		settings = reservemodels.DefaultSettings("")
	}

	if settings.IsSilenceDay(s.HuntDate.Weekday()) {
		return Result{}, errors.NewSilenceDayError(s.HuntDate)
	}

	if settings.BookingWindowEnabled && !inBookingWindow(settings, s.HuntDate, now) {
		return Result{}, errors.NewOutsideBookingWindowError(settings.BookingOpenHour, settings.BookingCloseHour)
	}

	for _, b := range s.ZoneBookings {
		if b.Status == models.StatusActive && calendar.SameDay(b.HuntDate, s.HuntDate) && b.TimeSlot.Overlaps(s.TimeSlot) {
			return Result{}, errors.NewZoneSlotTakenError(s.ZoneID, s.HuntDate, string(s.TimeSlot))
		}
	}

	if err := checkCooldown(s, now); err != nil {
		return Result{}, err
	}

	usesBonus, err := checkHarvest(s, settings, now)
	if err != nil {
		return Result{}, err
	}

	if s.QuotaAvailable != nil && *s.QuotaAvailable <= 0 {
		return Result{}, errors.NewQuotaExhaustedError(s.TargetSpecies, s.TargetCategory, 0)
	}

	return Result{UsesBonus: usesBonus}, nil
}

func inBookingWindow(settings *reservemodels.Settings, huntDate, now time.Time) bool {
	hour := now.Hour()
	if hour < settings.BookingOpenHour || hour >= settings.BookingCloseHour {
		return false
	}
	tomorrow := calendar.StartOfDay(now).AddDate(0, 0, 1)
	return calendar.SameDay(huntDate, tomorrow)
}

func checkCooldown(s *Snapshot, now time.Time) error {
	last := s.LastZoneBooking
	if last == nil {
		return nil
	}
	for _, rule := range s.CooldownRules {
		if !rule.IsActive || rule.ZoneCooldownHours == nil {
			continue
		}
		waitUntil := last.HuntDate.Add(time.Duration(*rule.ZoneCooldownHours) * time.Hour)
		if !now.Before(waitUntil) {
			continue
		}
		if rule.ZoneCooldownTime != nil {
			cutoff, err := calendar.ParseTimeOfDay(*rule.ZoneCooldownTime)
			if err == nil && !now.Before(cutoff.On(now)) {
				continue
			}
		}
		return errors.NewZoneCooldownActiveError(s.ZoneID, waitUntil)
	}
	return nil
}

type period struct {
	name  string
	since time.Time
	max   *int
}

// checkHarvest applies every harvest_limit rule for the target species. A
// rule whose cap is reached may still allow the booking through its seasonal
// bonus; the caller then records the reservation as a bonus booking.
func checkHarvest(s *Snapshot, settings *reservemodels.Settings, now time.Time) (bool, error) {
	if s.TargetSpecies == "" {
		return false, nil
	}

	seasonFrom, err := calendar.ParseMonthDay(settings.SeasonStart)
	if err != nil {
		seasonFrom = calendar.MustMonthDay(reservemodels.DefaultSeasonStart)
	}
	seasonStart := calendar.SeasonStart(now, seasonFrom)

	usesBonus := false
	for _, rule := range s.HarvestRules {
		if !rule.IsActive || rule.TargetSpecies == nil || *rule.TargetSpecies != s.TargetSpecies {
			continue
		}

		periods := []period{
			{"week", calendar.StartOfWeek(now), rule.MaxHarvestPerWeek},
			{"month", calendar.StartOfMonth(now), rule.MaxHarvestPerMonth},
			{"season", seasonStart, rule.MaxHarvestPerSeason},
		}

		var reached *period
		var reachedCount int
		for i := range periods {
			p := periods[i]
			if p.max == nil {
				continue
			}
			if n := countSince(s.Harvests, s.TargetSpecies, p.since, false); n >= *p.max {
				reached, reachedCount = &p, n
				break
			}
		}
		if reached == nil {
			continue
		}

		if bonusAvailable(rule, s.Harvests, s.TargetSpecies, seasonStart, now) {
			usesBonus = true
			continue
		}
		return false, errors.NewHarvestLimitReachedError(s.TargetSpecies, reached.name, reachedCount, *reached.max)
	}
	return usesBonus, nil
}

func bonusAvailable(rule *rulemodels.Rule, harvests []models.Harvest, species string, seasonStart, now time.Time) bool {
	if rule.BonusHarvestAllowed == nil || *rule.BonusHarvestAllowed <= 0 ||
		rule.SeasonalStartDate == nil || rule.SeasonalEndDate == nil {
		return false
	}
	start, err := calendar.ParseMonthDay(*rule.SeasonalStartDate)
	if err != nil {
		return false
	}
	end, err := calendar.ParseMonthDay(*rule.SeasonalEndDate)
	if err != nil {
		return false
	}
	if !calendar.InRange(now, start, end) {
		return false
	}
	return countSince(harvests, species, seasonStart, true) < *rule.BonusHarvestAllowed
}

func countSince(harvests []models.Harvest, species string, since time.Time, bonusOnly bool) int {
	n := 0
	for _, h := range harvests {
		if h.Species != species || h.HuntDate.Before(since) {
			continue
		}
		if bonusOnly && !h.UsesBonus {
			continue
		}
		n++
	}
	return n
}
