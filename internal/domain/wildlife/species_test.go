package wildlife

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	assert.True(t, IsSpecies("roe_deer"))
	assert.False(t, IsSpecies("wild_boar"))

	assert.True(t, IsCategory("red_deer", "cl0"))
	assert.False(t, IsCategory("red_deer", "M1"))

	assert.Equal(t, "MCL1", NormalizeCategory("red_deer", " mcl1 "))
	assert.Empty(t, NormalizeCategory("chamois", "M0"))

	assert.Equal(t, []Species{Chamois, FallowDeer, Mouflon, RedDeer, RoeDeer}, All())
}

func TestCategoriesReturnsCopy(t *testing.T) {
	c := Categories(RoeDeer)
	c[0] = "XX"
	assert.Equal(t, "M0", Categories(RoeDeer)[0])
}
