package local

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pill/recipes-etl/internal/domain"
)

func TestNormalizeDifficulty(t *testing.T) {
	d, ok := NormalizeDifficulty("super easy")
	assert.True(t, ok)
	assert.Equal(t, domain.DifficultyEasy, d)

	d, ok = NormalizeDifficulty("moderately difficult")
	assert.True(t, ok)
	assert.Equal(t, domain.DifficultyMedium, d)

	_, ok = NormalizeDifficulty("no idea")
	assert.False(t, ok)
}

func TestNormalizeMealType_EarliestMatchWins(t *testing.T) {
	mt, ok := NormalizeMealType("Dinner or lunch")
	assert.True(t, ok)
	assert.Equal(t, domain.MealTypeDinner, mt)
}

func TestCoerceInt(t *testing.T) {
	n, ok := CoerceInt("2-4")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = CoerceInt("30-45 minutes")
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	_, ok = CoerceInt("no numbers here")
	assert.False(t, ok)
}
