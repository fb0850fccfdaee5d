// Package i18n renders user-facing denial messages in the hunter's language.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Italian first: it is the fallback when nothing matches.
	supported = []language.Tag{language.Italian, language.English}
	matcher   = language.NewMatcher(supported)
)

func init() {
	for code, text := range italian {
		_ = message.SetString(language.Italian, code, text)
	}
	for code, text := range english {
		_ = message.SetString(language.English, code, text)
	}
}

// Default returns the fallback language.
func Default() language.Tag {
	return supported[0]
}

// Resolve picks the best supported tag for an Accept-Language header value.
func Resolve(acceptLanguage string) language.Tag {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return Default()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// Message returns the localized text for code, or "" when no translation is
// registered so callers can keep their own message.
func Message(tag language.Tag, code string) string {
	if _, ok := italian[code]; !ok {
		return ""
	}
	return message.NewPrinter(tag).Sprintf(code)
}
