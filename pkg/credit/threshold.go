package credit

import (
	"creditmanager/core"
	"math"
	"time"
)

// RampNever ramp start of a token whose threshold was never set
const RampNever int64 = math.MaxInt64

// LiquidationThreshold threshold of token at now: LTInitial up to the ramp
// start, LTFinal from the ramp end, linear in between
func LiquidationThreshold(token *core.CollateralToken, now time.Time) uint16 {
	return RampThreshold(token.LTInitial, token.LTFinal, token.RampStart, token.RampDuration, now.Unix())
}

// RampThreshold linear interpolation of the threshold over [start, start+duration]
func RampThreshold(ltInitial, ltFinal uint16, start int64, duration uint32, now int64) uint16 {
	if now <= start {
		return ltInitial
	}

	end := start + int64(duration)
	if start > math.MaxInt64-int64(duration) {
		end = math.MaxInt64
	}

	if now >= end {
		return ltFinal
	}

	elapsed := uint64(now - start)
	left := uint64(end - now)
	lt := (uint64(ltInitial)*left + uint64(ltFinal)*elapsed) / uint64(end-start)
	return uint16(lt)
}
