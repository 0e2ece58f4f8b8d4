package embedding

import "fmt"

// weightedAverage returns sum(w_i * values[n_i + offset]) / sum(w_i) over the
// neighbors accepted by keep. ok is false when no neighbor contributed.
func weightedAverage(set NeighborSet, values []float64, offset int, keep func(idx int) bool) (avg float64, ok bool) {
	total, sum := 0.0, 0.0
	used := 0
	for i, idx := range set.Indices {
		if keep != nil && !keep(idx) {
			continue
		}
		w := set.Weights[i]
		sum += w * values[idx+offset]
		total += w
		used++
	}
	if used == 0 {
		return 0, false
	}
	if total <= 0 {
		panic(fmt.Sprintf("embedding: non-positive total weight %g over %d neighbors", total, used))
	}
	return sum / total, true
}
