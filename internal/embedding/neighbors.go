package embedding

import (
	"math"
	"slices"
)

// WeightFloor is the smallest unshifted simplex weight exp(-d_i/d_0) a
// neighbor can receive. Stored weights are shifted by e, so their floor is
// math.E * WeightFloor.
const WeightFloor = 1e-5

// NeighborSet holds the nearest earlier embedded points of one frame, ordered
// by ascending distance. Indices are absolute frames.
type NeighborSet struct {
	Indices   []int
	Weights   []float64
	Distances []float64
}

func (s NeighborSet) Len() int { return len(s.Indices) }

func (s NeighborSet) Empty() bool { return len(s.Indices) == 0 }

// TotalWeight is the normalization constant of every weighted average.
func (s NeighborSet) TotalWeight() float64 {
	total := 0.0
	for _, w := range s.Weights {
		total += w
	}
	return total
}

func (s NeighborSet) Clone() NeighborSet {
	return NeighborSet{
		Indices:   slices.Clone(s.Indices),
		Weights:   slices.Clone(s.Weights),
		Distances: slices.Clone(s.Distances),
	}
}

type candidate struct {
	local int
	dist  float64
}

// FindNeighbors computes the neighbor set of every frame of one series.
// The returned slice has len(series) entries; frames before p.FirstFrame()
// hold empty sets, as do all frames when the series is too short.
func FindNeighbors(series []float64, p Params) []NeighborSet {
	n := len(series)
	sets := make([]NeighborSet, n)
	if p.NNNum <= 0 || p.NNSkip <= 0 {
		return sets
	}

	view := NewView(series, p.Tau)
	buf := make([]candidate, 0, p.NNNum+1)

	for frame := 2 * p.Tau; frame < n; frame++ {
		myFrame := frame - 2*p.Tau
		if myFrame < p.NNSkip*p.NNNum {
			continue
		}

		buf = buf[:0]
		index := myFrame - p.NNSkip
		for k := 0; k < p.NNNum; k, index = k+1, index-p.NNSkip {
			buf = append(buf, candidate{local: index, dist: view.Distance(index, myFrame)})
		}
		slices.SortStableFunc(buf, func(a, b candidate) int {
			switch {
			case a.dist < b.dist:
				return -1
			case a.dist > b.dist:
				return 1
			}
			return 0
		})

		for i := index; i >= 0; i -= p.NNSkip {
			d := view.Distance(i, myFrame)
			if d >= buf[len(buf)-1].dist {
				continue
			}
			// insert after every entry at distance <= d, then drop the worst
			pos := len(buf) - 1
			for pos > 0 && buf[pos-1].dist > d {
				pos--
			}
			buf = slices.Insert(buf, pos, candidate{local: i, dist: d})
			buf = buf[:p.NNNum]
		}

		sets[frame] = newNeighborSet(view, buf)
	}

	return sets
}

func newNeighborSet(view View, buf []candidate) NeighborSet {
	set := NeighborSet{
		Indices:   make([]int, len(buf)),
		Weights:   make([]float64, len(buf)),
		Distances: make([]float64, len(buf)),
	}
	for i, c := range buf {
		set.Indices[i] = view.Frame(c.local)
		set.Distances[i] = c.dist
	}
	simplexWeights(set.Distances, set.Weights)
	return set
}

// simplexWeights fills w with max(exp(-d_i/d_0), WeightFloor) rescaled by e,
// so the nearest neighbor weighs exactly 1; the factor cancels in every
// normalized average. When the nearest distance is zero the limit is used: 1
// for coincident points, the floor for everything else.
func simplexWeights(dist, w []float64) {
	d0 := dist[0]
	for i, d := range dist {
		switch {
		case d0 > 0:
			w[i] = math.Exp(-(d - d0) / d0)
		case d == 0:
			w[i] = 1
		default:
			w[i] = 0
		}
		w[i] = max(w[i], math.E*WeightFloor)
	}
}
