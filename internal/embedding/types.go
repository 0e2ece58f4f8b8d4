package embedding

import (
	"fmt"
	"strings"
)

// Dimension selects one of the three coordinate series.
type Dimension int

const (
	X Dimension = iota
	Y
	Z
)

var Dimensions = [3]Dimension{X, Y, Z}

func (d Dimension) String() string {
	switch d {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

func (d Dimension) Valid() bool { return d >= X && d <= Z }

func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "1":
		return X, nil
	case "y", "2":
		return Y, nil
	case "z", "3":
		return Z, nil
	}
	return 0, fmt.Errorf("unknown dimension %q (want x, y or z)", s)
}

// Pair is an ordered cross-map: the neighbors found in From's embedding
// predict the contemporaneous value of To.
type Pair struct {
	From, To Dimension
}

// Pairs lists the six cross maps in storage order.
var Pairs = [6]Pair{
	{X, Y}, {X, Z},
	{Y, X}, {Y, Z},
	{Z, X}, {Z, Y},
}

func (p Pair) String() string { return p.From.String() + "->" + p.To.String() }

func (p Pair) index() int {
	for i, q := range Pairs {
		if q == p {
			return i
		}
	}
	panic(fmt.Sprintf("embedding: invalid cross-map pair %v", p))
}

func ParsePair(s string) (Pair, error) {
	from, to, ok := strings.Cut(s, "->")
	if !ok {
		from, to, ok = strings.Cut(s, ":")
	}
	if !ok {
		return Pair{}, fmt.Errorf("invalid pair %q (want e.g. x->y)", s)
	}
	f, err := ParseDimension(from)
	if err != nil {
		return Pair{}, err
	}
	t, err := ParseDimension(to)
	if err != nil {
		return Pair{}, err
	}
	if f == t {
		return Pair{}, fmt.Errorf("invalid pair %q: dimensions must differ", s)
	}
	return Pair{From: f, To: t}, nil
}

// Horizon selects which coordinate of the forecast embedded point is read:
// the forecast value itself, or its companions one and two delays back.
type Horizon int

const (
	Ahead Horizon = iota
	Lag1
	Lag2
)

var Horizons = [3]Horizon{Ahead, Lag1, Lag2}

func (h Horizon) String() string {
	switch h {
	case Ahead:
		return "forecast"
	case Lag1:
		return "lag_1"
	case Lag2:
		return "lag_2"
	}
	return fmt.Sprintf("Horizon(%d)", int(h))
}

func (h Horizon) Valid() bool { return h >= Ahead && h <= Lag2 }

// Params are the embedding and neighborhood settings.
type Params struct {
	Tau    int
	Tp     int
	NNNum  int
	NNSkip int
}

// FirstFrame is the earliest frame that receives a neighbor set.
func (p Params) FirstFrame() int { return 2*p.Tau + p.NNSkip*p.NNNum }

// scanStart is where the cross-map and forecast passes begin. It sits one
// nn_skip stride before FirstFrame; frames in between have empty sets and are
// skipped.
func (p Params) scanStart() int { return 2*p.Tau + p.NNSkip*(p.NNNum-1) }
