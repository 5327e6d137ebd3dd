package features

// Series indicator math. All functions operate over the full price series;
// positions where a rolling window has not filled yet are nil.

// SMA returns the simple moving average over `period` trailing observations.
// The first period-1 positions are nil.
func SMA(xs []float64, period int) []*float64 {
	out := make([]*float64, len(xs))
	if period <= 0 {
		return out
	}
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= period {
			sum -= xs[i-period]
		}
		if i >= period-1 {
			v := sum / float64(period)
			out[i] = &v
		}
	}
	return out
}

// EMA returns the exponential moving average with smoothing factor derived
// from the span (alpha = 2/(span+1)), seeded with the first observation and
// with no bias adjustment. Defined for every position.
func EMA(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the relative strength index over `period` trailing deltas:
// the rolling mean of gains divided by the rolling mean of loss magnitudes,
// mapped onto a 0-100 oscillator. Positions before the window fills are nil,
// and a window with zero average loss yields nil rather than a division error.
func RSI(xs []float64, period int) []*float64 {
	out := make([]*float64, len(xs))
	if period <= 0 || len(xs) < 2 {
		return out
	}

	gains := make([]float64, len(xs))
	losses := make([]float64, len(xs))
	for i := 1; i < len(xs); i++ {
		delta := xs[i] - xs[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(xs); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			continue
		}
		avgGain := gainSum / float64(period)
		rs := avgGain / avgLoss
		v := 100 - 100/(1+rs)
		out[i] = &v
	}
	return out
}

// MACD returns the MACD line (EMA12 - EMA26), its EMA9 signal line, and the
// line-signal histogram.
func MACD(xs []float64) (line, signal, hist []float64) {
	ema12 := EMA(xs, 12)
	ema26 := EMA(xs, 26)
	line = make([]float64, len(xs))
	for i := range xs {
		line[i] = ema12[i] - ema26[i]
	}
	signal = EMA(line, 9)
	hist = make([]float64, len(xs))
	for i := range xs {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}

// CrossFlags detects moving-average crossovers between adjacent rows: a
// bullish cross fires on the exact row where the fast average moves from at
// or below the slow average to above it, a bearish cross on the mirror
// transition. Both are false on the first row and wherever either average is
// undefined on the current or previous row.
func CrossFlags(fast, slow []*float64) (bull, bear []bool) {
	bull = make([]bool, len(fast))
	bear = make([]bool, len(fast))
	for i := 1; i < len(fast); i++ {
		if fast[i] == nil || slow[i] == nil || fast[i-1] == nil || slow[i-1] == nil {
			continue
		}
		bull[i] = *fast[i] > *slow[i] && *fast[i-1] <= *slow[i-1]
		bear[i] = *fast[i] < *slow[i] && *fast[i-1] >= *slow[i-1]
	}
	return bull, bear
}
