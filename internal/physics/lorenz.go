package physics

import (
	"fmt"

	"github.com/san-kum/takens/internal/dynamo"
)

// Classical parameters giving the butterfly attractor.
const (
	DefaultSigma = 10.0
	DefaultRho   = 28.0
	DefaultBeta  = 8.0 / 3.0
)

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz { return &Lorenz{DefaultSigma, DefaultRho, DefaultBeta} }

func (l *Lorenz) StateDim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{l.sigma * (s[1] - s[0]), l.rho*s[0] - s[0]*s[2] - s[1], s[0]*s[1] - l.beta*s[2]}
}

// DefaultState is the initial condition every generated trajectory starts from.
func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{20.0, 20.0, 20.0} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	switch n {
	case "sigma":
		l.sigma = v
	case "rho":
		l.rho = v
	case "beta":
		l.beta = v
	default:
		return fmt.Errorf("%w: lorenz has no parameter %q", dynamo.ErrUnknownParameter, n)
	}
	return nil
}
