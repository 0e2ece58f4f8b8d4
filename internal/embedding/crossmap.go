package embedding

// CrossMaps holds the six cross-map series in [Pairs] order. Each series has
// the trajectory's length and is 0 wherever no prediction exists.
type CrossMaps [len(Pairs)][]float64

func (c *CrossMaps) Series(p Pair) []float64 { return c[p.index()] }

func (c *CrossMaps) At(p Pair, frame int) float64 { return c[p.index()][frame] }

// CrossMap predicts, for every frame with neighbors in dimension d, the two
// other coordinates as the weighted average of their values at d's neighbor
// indices.
func CrossMap(series [3][]float64, neighbors [3][]NeighborSet, p Params) CrossMaps {
	n := len(series[X])

	var out CrossMaps
	for i := range out {
		out[i] = make([]float64, n)
	}

	start := max(p.scanStart(), 0)
	for frame := start; frame < n; frame++ {
		for _, pair := range Pairs {
			set := neighbors[pair.From][frame]
			if set.Empty() {
				continue
			}
			if v, ok := weightedAverage(set, series[pair.To], 0, nil); ok {
				out[pair.index()][frame] = v
			}
		}
	}

	return out
}
