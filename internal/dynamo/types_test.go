package dynamo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_SubAndClone(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrUnstable}
	expected := "step 150 (t=1.5000): dynamo: simulation unstable (state diverged)"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrUnstable) {
		t.Error("expected SimulationError to unwrap to ErrUnstable")
	}
}

type recorder struct {
	set    []string
	reject string
}

func (r *recorder) GetParams() map[string]float64 { return nil }

func (r *recorder) SetParam(name string, _ float64) error {
	if name == r.reject {
		return ErrUnknownParameter
	}
	r.set = append(r.set, name)
	return nil
}

func TestConfigure(t *testing.T) {
	r := &recorder{}
	if err := Configure(r, map[string]float64{"rho": 1, "beta": 2, "sigma": 3}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if got := strings.Join(r.set, ","); got != "beta,rho,sigma" {
		t.Errorf("expected params set in name order, got %s", got)
	}

	r = &recorder{reject: "rho"}
	err := Configure(r, map[string]float64{"rho": 1, "beta": 2, "sigma": 3})
	if !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if len(r.set) != 1 || r.set[0] != "beta" {
		t.Errorf("expected Configure to stop at the rejected param, set %v", r.set)
	}
}
