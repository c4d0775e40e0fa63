package number

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}

func TestRaw(t *testing.T) {
	data := map[string]string{
		"1500":         "1500000000",
		"0.000001":     "1",
		"0.0000019":    "1",
		"12.345678912": "12345678",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			raw, err := ToRaw(Decimal(k), 6)
			assert.Equal(t, nil, err)
			assert.Equal(t, v, raw.Dec())
		})
	}

	_, err := ToRaw(Decimal("-1"), 6)
	assert.NotEqual(t, nil, err)

	raw, _ := ToRaw(Decimal("1500.25"), 6)
	assert.Equal(t, "1500.25", FromRaw(raw, 6).String())
}

func TestBps(t *testing.T) {
	assert.Equal(t, "0.8", Bps(8000).String())
	assert.Equal(t, uint16(9250), ToBps(Decimal("0.925")))
	assert.Equal(t, uint16(10000), ToBps(Decimal("1.5")))
	assert.Equal(t, uint16(0), ToBps(Decimal("-0.1")))
}
