package embedding

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// View is a read-only delayed view of a series. It never copies the series.
type View struct {
	series []float64
	tau    int
}

func NewView(series []float64, tau int) View {
	if tau < 0 {
		panic(fmt.Sprintf("embedding: negative delay %d", tau))
	}
	return View{series: series, tau: tau}
}

// Len is the number of local indices with a complete embedded point.
func (v View) Len() int {
	n := len(v.series) - 2*v.tau
	if n < 0 {
		return 0
	}
	return n
}

func (v View) Tau() int { return v.tau }

// At returns series[i + lag*tau] for lag in {0, 1, 2}.
func (v View) At(i, lag int) float64 {
	if lag < 0 || lag > 2 {
		panic(fmt.Sprintf("embedding: lag %d out of range [0, 2]", lag))
	}
	j := i + lag*v.tau
	if i < 0 || j >= len(v.series) {
		panic(fmt.Sprintf("embedding: index %d (lag %d, tau %d) out of range [0, %d)", i, lag, v.tau, len(v.series)))
	}
	return v.series[j]
}

// Point returns the embedded point at local index i.
func (v View) Point(i int) [3]float64 {
	return [3]float64{v.At(i, 0), v.At(i, 1), v.At(i, 2)}
}

// Frame converts a local index to the absolute index of its newest sample.
func (v View) Frame(i int) int { return i + 2*v.tau }

// Distance is the Euclidean distance between the embedded points at local
// indices i and j.
func (v View) Distance(i, j int) float64 {
	a, b := v.Point(i), v.Point(j)
	return floats.Distance(a[:], b[:], 2)
}
