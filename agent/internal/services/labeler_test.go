package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeGain(t *testing.T) {
	assert.InDelta(t, 1.0, ComputeGain(0.5, 1.0), 1e-9)
	assert.InDelta(t, -0.5, ComputeGain(1.0, 0.5), 1e-9)
	assert.InDelta(t, 0.0, ComputeGain(2.0, 2.0), 1e-9)
}

func TestComputeGainZeroPriceAtCall(t *testing.T) {
	// micro-cap tokens occasionally report a zero entry price; the
	// clamped denominator keeps the gain finite
	gain := ComputeGain(0, 1e-6)
	assert.False(t, gain != gain, "gain is NaN")
	assert.Positive(t, gain)
}

func TestComputeGainTotalLoss(t *testing.T) {
	assert.InDelta(t, -1.0, ComputeGain(0.004, 0), 1e-9)
}

func TestWinRule(t *testing.T) {
	// flat performance still counts as a win
	assert.True(t, ComputeGain(1.0, 1.0) >= 0)
	assert.True(t, ComputeGain(1.0, 1.2) >= 0)
	assert.False(t, ComputeGain(1.0, 0.99) >= 0)
}
