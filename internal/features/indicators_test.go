package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestSMA(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4}, 2)

	require.Len(t, out, 4)
	assert.Nil(t, out[0], "window not filled yet")
	require.NotNil(t, out[1])
	assert.InDelta(t, 1.5, *out[1], 1e-9)
	assert.InDelta(t, 2.5, *out[2], 1e-9)
	assert.InDelta(t, 3.5, *out[3], 1e-9)
}

func TestSMA_ShortSeries(t *testing.T) {
	out := SMA([]float64{1, 2}, 5)
	for _, v := range out {
		assert.Nil(t, v)
	}
}

func TestEMA(t *testing.T) {
	// span 3 => alpha 0.5, seeded with the first observation, no bias
	// adjustment: 1, 1.5, 2.25.
	out := EMA([]float64{1, 2, 3}, 3)

	require.Len(t, out, 3)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 1.5, out[1], 1e-9)
	assert.InDelta(t, 2.25, out[2], 1e-9)
}

func TestRSI_BalancedGainsAndLosses(t *testing.T) {
	// Alternating +1/-1 deltas: average gain equals average loss, RSI 50.
	xs := []float64{10, 11, 10, 11, 10, 11}
	out := RSI(xs, 2)

	require.Len(t, out, 6)
	assert.Nil(t, out[0])
	assert.Nil(t, out[1], "first delta alone does not fill the window")
	for i := 2; i < len(out); i++ {
		require.NotNil(t, out[i], "index %d", i)
		assert.InDelta(t, 50.0, *out[i], 1e-9)
	}
}

func TestRSI_NoLossesIsUndefined(t *testing.T) {
	// 14+ consecutive non-negative deltas: zero average loss must yield an
	// undefined RSI, not a division error.
	xs := make([]float64, 20)
	for i := range xs {
		xs[i] = 100 + float64(i)
	}
	out := RSI(xs, 14)
	for i, v := range out {
		assert.Nil(t, v, "index %d", i)
	}
}

func TestRSI_AllLosses(t *testing.T) {
	xs := make([]float64, 6)
	for i := range xs {
		xs[i] = 100 - float64(i)
	}
	out := RSI(xs, 2)
	require.NotNil(t, out[5])
	assert.InDelta(t, 0.0, *out[5], 1e-9)
}

func TestMACD_ConstantSeries(t *testing.T) {
	xs := []float64{5, 5, 5, 5, 5}
	line, signal, hist := MACD(xs)
	for i := range xs {
		assert.InDelta(t, 0.0, line[i], 1e-9)
		assert.InDelta(t, 0.0, signal[i], 1e-9)
		assert.InDelta(t, 0.0, hist[i], 1e-9)
	}
}

func TestMACD_HistogramIsLineMinusSignal(t *testing.T) {
	xs := []float64{1, 3, 2, 5, 4, 6, 8, 7, 9, 10}
	line, signal, hist := MACD(xs)
	for i := range xs {
		assert.InDelta(t, line[i]-signal[i], hist[i], 1e-9)
	}
}

func TestCrossFlags_BullishCrossFiresOnce(t *testing.T) {
	slow := []*float64{ptr(10), ptr(10), ptr(10), ptr(10)}
	fast := []*float64{ptr(9), ptr(9.5), ptr(11), ptr(12)}

	bull, bear := CrossFlags(fast, slow)

	assert.Equal(t, []bool{false, false, true, false}, bull,
		"bullish cross must fire on the transition row only")
	for i := range bear {
		assert.False(t, bear[i])
	}
}

func TestCrossFlags_EqualThenAboveCounts(t *testing.T) {
	slow := []*float64{ptr(10), ptr(10)}
	fast := []*float64{ptr(10), ptr(10.5)}

	bull, _ := CrossFlags(fast, slow)
	assert.True(t, bull[1], "moving from equal to above is a bullish cross")
}

func TestCrossFlags_BearishMirror(t *testing.T) {
	slow := []*float64{ptr(10), ptr(10), ptr(10)}
	fast := []*float64{ptr(11), ptr(9), ptr(8)}

	bull, bear := CrossFlags(fast, slow)
	assert.Equal(t, []bool{false, true, false}, bear)
	for i := range bull {
		assert.False(t, bull[i])
	}
}

func TestCrossFlags_NeverBothTrue(t *testing.T) {
	slow := []*float64{ptr(10), ptr(10), ptr(10), ptr(10), ptr(10)}
	fast := []*float64{ptr(9), ptr(11), ptr(9), ptr(11), ptr(9)}

	bull, bear := CrossFlags(fast, slow)
	for i := range bull {
		assert.False(t, bull[i] && bear[i], "index %d", i)
	}
}

func TestCrossFlags_UndefinedInputsAreFalse(t *testing.T) {
	slow := []*float64{nil, ptr(10), ptr(10)}
	fast := []*float64{nil, ptr(9), ptr(11)}

	bull, bear := CrossFlags(fast, slow)
	assert.False(t, bull[0], "first row has no prior value")
	assert.False(t, bull[1], "previous row undefined")
	assert.True(t, bull[2])
	assert.False(t, bear[2])
}
