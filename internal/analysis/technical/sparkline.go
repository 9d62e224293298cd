package technical

// sparkBars are the eight bar-height glyphs, lowest to highest.
var sparkBars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineWindow is how many trailing prices the sparkline shows.
const SparklineWindow = 5

// Sparkline renders the most recent five prices as bar glyphs, min-max
// normalized within that window. A window of equal prices renders flat
// mid-height bars; fewer than two prices renders nothing.
func Sparkline(prices []float64) string {
	if len(prices) < 2 {
		return ""
	}
	if len(prices) > SparklineWindow {
		prices = prices[len(prices)-SparklineWindow:]
	}

	min, max := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	out := make([]rune, len(prices))
	if max == min {
		for i := range out {
			out[i] = sparkBars[len(sparkBars)/2]
		}
		return string(out)
	}

	scale := float64(len(sparkBars)-1) / (max - min)
	for i, p := range prices {
		out[i] = sparkBars[int((p-min)*scale+0.5)]
	}
	return string(out)
}
