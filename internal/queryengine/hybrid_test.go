package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMaxNormalize_RescalesToUnitRange(t *testing.T) {
	out := minMaxNormalize([]Result{{ID: "a", Score: 2}, {ID: "b", Score: 4}, {ID: "c", Score: 6}})

	assert.InDelta(t, 0, out["a"], 1e-9)
	assert.InDelta(t, 0.5, out["b"], 1e-9)
	assert.InDelta(t, 1, out["c"], 1e-9)
}

func TestMinMaxNormalize_ZeroSpan_MapsToOne(t *testing.T) {
	out := minMaxNormalize([]Result{{ID: "a", Score: 3}, {ID: "b", Score: 3}})

	assert.Equal(t, 1.0, out["a"])
	assert.Equal(t, 1.0, out["b"])
}

func TestMinMaxNormalize_Empty_ReturnsEmptyMap(t *testing.T) {
	out := minMaxNormalize(nil)
	assert.Empty(t, out)
}
