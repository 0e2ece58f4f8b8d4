package analysis

import (
	"math"

	"github.com/san-kum/takens/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Two trajectories start perturbation apart along the first axis. After every
// step the log growth of their separation is accumulated and the perturbed
// trajectory is pulled back to the initial distance along the current
// separation vector.
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dt <= 0 || perturbation <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	sumLog := 0.0
	steps := int(duration / dt)
	count := 0

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		if !x.IsValid() || !xp.IsValid() {
			break
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		// renormalize
		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
