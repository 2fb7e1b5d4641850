package hrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustLongShort_BothSides(t *testing.T) {
	weights := map[string]float64{
		"A": 0.4,
		"B": 0.4,
		"C": 0.2,
	}
	sides := map[string]float64{"A": 1, "B": -1, "C": -1}

	adjusted := adjustLongShort(weights, sides)

	assert.InDelta(t, 0.5, adjusted["A"], 1e-12)
	assert.InDelta(t, -0.5*0.4/0.6, adjusted["B"], 1e-12)
	assert.InDelta(t, -0.5*0.2/0.6, adjusted["C"], 1e-12)
	assert.InDelta(t, -0.5, adjusted["B"]+adjusted["C"], 1e-12)
}

func TestAdjustLongShort_MissingEntriesDefaultToLong(t *testing.T) {
	weights := map[string]float64{
		"A": 0.6,
		"B": 0.3,
		"C": 0.1,
	}
	sides := map[string]float64{"C": -1}

	adjusted := adjustLongShort(weights, sides)

	assert.InDelta(t, 0.5*0.6/0.9, adjusted["A"], 1e-12)
	assert.InDelta(t, 0.5*0.3/0.9, adjusted["B"], 1e-12)
	assert.InDelta(t, -0.5, adjusted["C"], 1e-12)
}

func TestAdjustLongShort_EmptyShortSideIsNoop(t *testing.T) {
	weights := map[string]float64{"A": 0.7, "B": 0.3}
	sides := map[string]float64{"A": 1, "B": 1}

	adjusted := adjustLongShort(weights, sides)

	assert.Equal(t, weights, adjusted)
}

func TestAdjustLongShort_EmptyLongSideIsNoop(t *testing.T) {
	weights := map[string]float64{"A": 0.7, "B": 0.3}
	sides := map[string]float64{"A": -1, "B": -1}

	adjusted := adjustLongShort(weights, sides)

	assert.Equal(t, weights, adjusted)
}
