package credit

import (
	"creditmanager/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRampThresholdBoundaries(t *testing.T) {
	const start, duration = int64(1_000), uint32(100)

	assert.Equal(t, uint16(8000), RampThreshold(8000, 6000, start, duration, 900))
	assert.Equal(t, uint16(8000), RampThreshold(8000, 6000, start, duration, start))
	assert.Equal(t, uint16(7000), RampThreshold(8000, 6000, start, duration, start+50))
	assert.Equal(t, uint16(6000), RampThreshold(8000, 6000, start, duration, start+100))
	assert.Equal(t, uint16(6000), RampThreshold(8000, 6000, start, duration, start+10_000))
}

func TestRampThresholdMonotonic(t *testing.T) {
	const start, duration = int64(1_000), uint32(333)

	down := RampThreshold(9000, 5000, start, duration, start)
	up := RampThreshold(5000, 9000, start, duration, start)
	for now := start + 1; now <= start+int64(duration); now++ {
		d := RampThreshold(9000, 5000, start, duration, now)
		assert.LessOrEqual(t, d, down)
		down = d

		rising := RampThreshold(5000, 9000, start, duration, now)
		assert.GreaterOrEqual(t, rising, up)
		up = rising
	}
}

func TestRampThresholdNever(t *testing.T) {
	token := &core.CollateralToken{RampStart: RampNever}
	assert.Equal(t, uint16(0), LiquidationThreshold(token, time.Now()))
}

func TestRampThresholdZeroDuration(t *testing.T) {
	assert.Equal(t, uint16(8000), RampThreshold(8000, 6000, 50, 0, 50))
	assert.Equal(t, uint16(6000), RampThreshold(8000, 6000, 50, 0, 51))
}

func TestRampThresholdSaturatedEnd(t *testing.T) {
	start := RampNever - 10
	assert.Equal(t, uint16(8000), RampThreshold(8000, 6000, start, 1_000, start))
	assert.Equal(t, uint16(7800), RampThreshold(8000, 6000, start, 1_000, start+1))
	assert.Equal(t, uint16(6000), RampThreshold(8000, 6000, start, 1_000, RampNever))
}
