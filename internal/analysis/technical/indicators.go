// Package technical implements the momentum and trend indicators shown in the
// dashboard. All functions operate on plain price series (oldest first) and
// return ok=false instead of a guessed value when the series is too short.
package technical

const (
	// RSIPeriod is the lookback for the relative strength index.
	RSIPeriod = 14

	// MACD parameters: fast/slow EMAs and the signal smoothing period.
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// RSI calculates the Wilder-smoothed Relative Strength Index over the fixed
// 14-period lookback. Requires at least 15 prices (14 deltas); values are
// always within [0, 100], and a series with no losses reads 100.
func RSI(prices []float64) (float64, bool) {
	if len(prices) < RSIPeriod+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= RSIPeriod; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= RSIPeriod
	avgLoss /= RSIPeriod

	// Wilder smoothing for the remaining deltas.
	for i := RSIPeriod + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(RSIPeriod-1) + gain) / RSIPeriod
		avgLoss = (avgLoss*(RSIPeriod-1) + loss) / RSIPeriod
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// SMA returns the arithmetic mean of the most recent period prices.
func SMA(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), true
}

// EMA returns the exponential moving average of the series: seeded with the
// simple mean of the oldest period-sized window, then rolled forward with
// multiplier 2/(period+1).
func EMA(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) < period {
		return 0, false
	}

	seed := 0.0
	for _, p := range prices[:period] {
		seed += p
	}
	ema := seed / float64(period)

	k := 2.0 / float64(period+1)
	for _, p := range prices[period:] {
		ema = p*k + ema*(1-k)
	}
	return ema, true
}

// MACDResult holds the three MACD output values.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes the moving average convergence divergence over the series.
// The MACD line is EMA12 - EMA26 and requires at least 26 prices. The signal
// line folds the EMA multiplier (period 9) over the trailing nine recomputed
// MACD values rather than maintaining a full EMA-of-MACD history, so outputs
// can differ slightly from charting libraries.
func MACD(prices []float64) (MACDResult, bool) {
	if len(prices) < MACDSlowPeriod {
		return MACDResult{}, false
	}

	line, ok := macdAt(prices, len(prices))
	if !ok {
		return MACDResult{}, false
	}

	start := len(prices) - MACDSignalPeriod
	if start < MACDSlowPeriod {
		start = MACDSlowPeriod
	}

	k := 2.0 / float64(MACDSignalPeriod+1)
	signal, seeded := 0.0, false
	for end := start; end <= len(prices); end++ {
		v, ok := macdAt(prices, end)
		if !ok {
			continue
		}
		if !seeded {
			signal = v
			seeded = true
			continue
		}
		signal = v*k + signal*(1-k)
	}

	return MACDResult{
		MACD:      line,
		Signal:    signal,
		Histogram: line - signal,
	}, true
}

// macdAt computes the MACD line over the prefix prices[:end].
func macdAt(prices []float64, end int) (float64, bool) {
	fast, okFast := EMA(prices[:end], MACDFastPeriod)
	slow, okSlow := EMA(prices[:end], MACDSlowPeriod)
	if !okFast || !okSlow {
		return 0, false
	}
	return fast - slow, true
}
