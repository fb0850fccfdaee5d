// Package wildlife holds the species and harvest category catalog used by
// regional quota decrees.
package wildlife

import (
	"sort"
	"strings"
)

type Species string

const (
	RoeDeer    Species = "roe_deer"
	RedDeer    Species = "red_deer"
	FallowDeer Species = "fallow_deer"
	Mouflon    Species = "mouflon"
	Chamois    Species = "chamois"
)

var categories = map[Species][]string{
	RoeDeer:    {"M0", "F0", "FA", "M1", "MA"},
	RedDeer:    {"CL0", "FF", "MM", "MCL1"},
	FallowDeer: {"DA-M-0", "DA-M-I", "DA-M-II", "DA-F-0", "DA-F-I", "DA-F-II"},
	Mouflon:    {"MU-M-0", "MU-M-I", "MU-M-II", "MU-F-0", "MU-F-I", "MU-F-II"},
	Chamois:    {"CA-M-0", "CA-M-I", "CA-M-II", "CA-M-III", "CA-F-0", "CA-F-I", "CA-F-II", "CA-F-III"},
}

// All returns every species in stable order.
func All() []Species {
	out := make([]Species, 0, len(categories))
	for s := range categories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func IsSpecies(s string) bool {
	_, ok := categories[Species(s)]
	return ok
}

// Categories returns the harvest categories of s, nil for unknown species.
func Categories(s Species) []string {
	return append([]string(nil), categories[s]...)
}

// IsCategory reports whether category belongs to species. Comparison is
// case-insensitive because decrees are typed by hand.
func IsCategory(species, category string) bool {
	for _, c := range categories[Species(species)] {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// NormalizeCategory returns the catalog spelling of category, or "" if it
// does not belong to species.
func NormalizeCategory(species, category string) string {
	category = strings.TrimSpace(category)
	for _, c := range categories[Species(species)] {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return ""
}

// Aliases maps the common Italian names found in regional decrees.
var Aliases = map[string]Species{
	"capriolo": RoeDeer,
	"cervo":    RedDeer,
	"daino":    FallowDeer,
	"muflone":  Mouflon,
	"camoscio": Chamois,
}
