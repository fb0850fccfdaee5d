package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleRequest struct {
	Start   string `validate:"omitempty,monthday"`
	Cutoff  string `validate:"omitempty,timeofday"`
	Species string `validate:"required,species"`
	Slot    string `validate:"omitempty,timeslot"`
	Group   string `validate:"omitempty,huntergroup"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	ok := ruleRequest{Start: "11-01", Cutoff: "06:30", Species: "roe_deer", Slot: "full_day", Group: "B"}
	assert.NoError(t, v.Struct(ok))

	cases := map[string]ruleRequest{
		"month-day": {Start: "13-01", Species: "roe_deer"},
		"cutoff":    {Cutoff: "25:00", Species: "roe_deer"},
		"species":   {Species: "wolf"},
		"slot":      {Species: "roe_deer", Slot: "evening"},
		"group":     {Species: "roe_deer", Group: "E"},
	}
	for name, req := range cases {
		assert.Error(t, v.Struct(req), name)
	}
}

func TestTextValidators(t *testing.T) {
	assert.NoError(t, ValidateTitle("Sorteggio camoscio 2024"))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateName("first_name", ""))
	assert.Error(t, ValidatePositiveInt(0, "total_spots"))
	assert.NoError(t, ValidateNonNegativeInt(0, "total_quota"))
	assert.True(t, IsValidTimeSlot("morning"))
	assert.False(t, IsValidHunterGroup("a"))
}
