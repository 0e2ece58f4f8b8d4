package embedding

import (
	"github.com/san-kum/takens/internal/dynamo"
	"github.com/san-kum/takens/internal/integrators"
	"github.com/san-kum/takens/internal/physics"
)

// lorenzSeries integrates the classic Lorenz system with Euler steps and
// shifts every coordinate by +100 so all samples are strictly positive.
func lorenzSeries(n int) [3][]float64 {
	sys := physics.NewLorenz()
	integ := integrators.NewEuler()

	var out [3][]float64
	for d := range out {
		out[d] = make([]float64, n)
	}

	x := sys.DefaultState()
	for i := 0; i < n; i++ {
		for d := range out {
			out[d][i] = x[d] + 100
		}
		x = integ.Step(sys, x, float64(i)*0.01, 0.01)
	}
	return out
}

func allNeighbors(series [3][]float64, p Params) [3][]NeighborSet {
	var out [3][]NeighborSet
	for _, d := range Dimensions {
		out[d] = FindNeighbors(series[d], p)
	}
	return out
}

var _ dynamo.System = (*physics.Lorenz)(nil)
