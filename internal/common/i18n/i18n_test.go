package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, language.Italian, Resolve(""))
	assert.Equal(t, language.English, Resolve("en-GB,en;q=0.9"))
	assert.Equal(t, language.Italian, Resolve("it-IT"))
	assert.Equal(t, language.Italian, Resolve("de-DE"))
	assert.Equal(t, language.Italian, Resolve("%%%"))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "You have already joined this lottery.", Message(language.English, "DUPLICATE_PARTICIPATION"))
	assert.Equal(t, "Sei già iscritto a questa lotteria.", Message(language.Italian, "DUPLICATE_PARTICIPATION"))
	assert.Empty(t, Message(language.English, "DATABASE_ERROR"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for code := range italian {
		_, ok := english[code]
		assert.True(t, ok, "missing english text for %s", code)
	}
	assert.Len(t, english, len(italian))
}
