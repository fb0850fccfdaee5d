package validation

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hunting-reserve-backend/internal/domain/wildlife"
	"hunting-reserve-backend/internal/utils/calendar"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxNameLength        = 64
	MaxNotesLength       = 2000

	MinTitleLength = 1
)

// Custom binding tags understood by request DTOs.
const (
	TagMonthDay    = "monthday"
	TagTimeOfDay   = "timeofday"
	TagSpecies     = "species"
	TagTimeSlot    = "timeslot"
	TagHunterGroup = "huntergroup"
)

var (
	timeSlots    = []string{"morning", "afternoon", "full_day"}
	hunterGroups = []string{"A", "B", "C", "D"}
)

// Register installs the custom tags into gin's validator engine. Safe to call
// more than once.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagMonthDay: func(fl validator.FieldLevel) bool {
			_, err := calendar.ParseMonthDay(fl.Field().String())
			return err == nil
		},
		TagTimeOfDay: func(fl validator.FieldLevel) bool {
			_, err := calendar.ParseTimeOfDay(fl.Field().String())
			return err == nil
		},
		TagSpecies: func(fl validator.FieldLevel) bool {
			return wildlife.IsSpecies(fl.Field().String())
		},
		TagTimeSlot: func(fl validator.FieldLevel) bool {
			return contains(timeSlots, fl.Field().String())
		},
		TagHunterGroup: func(fl validator.FieldLevel) bool {
			return contains(hunterGroups, fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// ValidateTitle checks a free-text title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) < MinTitleLength {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)
	}
	return nil
}

func ValidateDescription(description string) error {
	if len(strings.TrimSpace(description)) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%s cannot exceed %d characters", field, MaxNameLength)
	}
	return nil
}

func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	return nil
}

func ValidateNonNegativeInt(value int64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	return nil
}

func IsValidTimeSlot(slot string) bool {
	return contains(timeSlots, slot)
}

func IsValidHunterGroup(group string) bool {
	return contains(hunterGroups, group)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
