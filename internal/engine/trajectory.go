package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/takens/internal/dynamo"
)

// Trajectory is the sampled state of a three-dimensional system. All three
// series have the same length.
type Trajectory struct {
	X, Y, Z []float64
}

func (t Trajectory) Len() int { return len(t.X) }

func (t Trajectory) series() [3][]float64 { return [3][]float64{t.X, t.Y, t.Z} }

// Integrate samples n states of sys starting at x0, advancing with integ at a
// fixed step dt. Sample i+1 is always computed from sample i alone.
func Integrate(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, n int, dt float64) (Trajectory, error) {
	if sys.StateDim() != 3 || len(x0) != 3 {
		return Trajectory{}, fmt.Errorf("%w: need a 3-dimensional system and state, got %d and %d",
			dynamo.ErrDimensionMismatch, sys.StateDim(), len(x0))
	}
	if n < 1 {
		return Trajectory{}, fmt.Errorf("%w: need at least one sample, got %d", dynamo.ErrParameterBounds, n)
	}

	tr := Trajectory{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}

	x := x0.Clone()
	for i := 0; i < n; i++ {
		if !x.IsValid() {
			return Trajectory{}, &dynamo.SimulationError{Step: i, Time: float64(i) * dt, State: x, Wrapped: dynamo.ErrUnstable}
		}
		tr.X[i], tr.Y[i], tr.Z[i] = x[0], x[1], x[2]
		if i+1 < n {
			x = integ.Step(sys, x, float64(i)*dt, dt)
		}
	}

	return tr, nil
}

// Bounds describes the affine map applied by Normalize.
type Bounds struct {
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
	Center [3]float64 `json:"center"`
	Scale  float64    `json:"scale"`
	Cube   float64    `json:"cube"`
}

// Normalize maps the trajectory in place into a cube of side 1.5*cube
// centered on (cube, cube, cube): coord' = (coord - center)*scale + cube with
// scale = 1.5*cube / largest axis range.
func Normalize(tr Trajectory, cube float64) Bounds {
	b := Bounds{Cube: cube, Scale: 1}
	series := tr.series()
	if tr.Len() == 0 {
		return b
	}

	widest := 0.0
	for d, s := range series {
		b.Min[d], b.Max[d] = floats.Min(s), floats.Max(s)
		b.Center[d] = (b.Min[d] + b.Max[d]) / 2
		widest = max(widest, b.Max[d]-b.Min[d])
	}
	if widest > 0 {
		b.Scale = 1.5 * cube / widest
	}

	for d, s := range series {
		floats.AddConst(-b.Center[d], s)
		floats.Scale(b.Scale, s)
		floats.AddConst(cube, s)
	}

	return b
}
