package embedding

// Forecasts holds, per dimension, the tp-ahead forecast and its two lagged
// companions. Values are stored at the frame they predict (frame + tp).
type Forecasts [3][len(Horizons)][]float64

func (f *Forecasts) Series(d Dimension, h Horizon) []float64 { return f[d][h] }

func (f *Forecasts) At(d Dimension, h Horizon, frame int) float64 { return f[d][h][frame] }

// Forecast projects every frame in [2*tau + nn_skip*(nn_num-1), N-tp) tp steps
// ahead using the frame's own neighbor weights. Neighbors whose future lies
// past the end of the series are ignored in every dimension.
func Forecast(series [3][]float64, neighbors [3][]NeighborSet, p Params) Forecasts {
	n := len(series[X])

	var out Forecasts
	for d := range out {
		for h := range out[d] {
			out[d][h] = make([]float64, n)
		}
	}

	inRange := func(idx int) bool { return idx < n-p.Tp }
	offsets := [len(Horizons)]int{
		Ahead: p.Tp,
		Lag1:  p.Tp - p.Tau,
		Lag2:  p.Tp - 2*p.Tau,
	}

	start := max(p.scanStart(), 0)
	for frame := start; frame < n-p.Tp; frame++ {
		for _, d := range Dimensions {
			set := neighbors[d][frame]
			if set.Empty() {
				continue
			}
			for _, h := range Horizons {
				if v, ok := weightedAverage(set, series[d], offsets[h], inRange); ok {
					out[d][h][frame+p.Tp] = v
				}
			}
		}
	}

	return out
}
