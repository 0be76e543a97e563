package export

import (
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
)

// niceTicks returns about n ticks on 1/2/2.5/5 x 10^k steps that lie
// inside [min, max].
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) || max <= min {
		return nil
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	step := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		count := math.Floor((max-min)/(c*mag)) + 1
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			step = c * mag
		}
	}
	return stepTicks(min, max, step)
}

// stepTicks places ticks on multiples of step inside [min, max].
func stepTicks(min, max, step float64) []chart.Tick {
	if step <= 0 || max < min {
		return nil
	}
	decimals := tickDecimals(step)
	first := math.Ceil(min/step - 1e-9)
	last := math.Floor(max/step + 1e-9)

	ticks := make([]chart.Tick, 0, int(last-first)+1)
	for k := first; k <= last; k++ {
		v := k * step
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
	}
	return ticks
}

func tickDecimals(step float64) int {
	for d := 0; d < 10; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9*scaled {
			return d
		}
	}
	return 10
}
