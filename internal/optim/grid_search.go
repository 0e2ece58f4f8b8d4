package optim

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/takens/internal/analysis"
	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/dynamo"
	"github.com/san-kum/takens/internal/engine"
)

// Params that can be swept.
var Params = []string{"tau", "tp", "nn_num", "nn_skip"}

// Objective scores a report; higher is better.
type Objective func(analysis.Report) float64

// Objectives maps objective names to their implementations.
var Objectives = map[string]Objective{
	"forecast": MeanForecastCorrelation,
	"crossmap": MeanCrossMapCorrelation,
}

func MeanForecastCorrelation(r analysis.Report) float64 { return meanCorrelation(r.Forecasts) }

func MeanCrossMapCorrelation(r analysis.Report) float64 { return meanCorrelation(r.CrossMaps) }

func meanCorrelation(m map[string]analysis.Skill) float64 {
	if len(m) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range m {
		sum += s.Correlation
	}
	return sum / float64(len(m))
}

type Axis struct {
	Name   string
	Values []int
}

// Result is one grid point. Err is set when the point's configuration is
// invalid; such points carry no score.
type Result struct {
	Params map[string]int
	Config config.Config
	Score  float64
	Err    error
}

type GridSearch struct {
	axes    []Axis
	workers int
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes, workers: runtime.GOMAXPROCS(0)}
}

// SetWorkers bounds the number of engines generated at once.
func (g *GridSearch) SetWorkers(n int) {
	g.workers = max(n, 1)
}

// Search generates an engine for every combination of axis values applied
// on top of base and scores it. Results are ordered best first; invalid
// points come last in enumeration order.
func (g *GridSearch) Search(ctx context.Context, base config.Config, objective Objective) ([]Result, error) {
	for _, a := range g.axes {
		if !slices.Contains(Params, a.Name) {
			return nil, fmt.Errorf("%w: %s (sweepable: %v)", dynamo.ErrUnknownParameter, a.Name, Params)
		}
	}

	var points []map[string]int
	g.searchRecursive(0, map[string]int{}, &points)

	results := make([]Result, len(points))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)

	for i, p := range points {
		cfg := apply(base, p)
		results[i] = Result{Params: p, Config: cfg}
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			eng, err := engine.New(cfg)
			if err != nil {
				if errors.Is(err, dynamo.ErrParameterBounds) {
					results[i].Err = err
					return nil
				}
				return err
			}
			results[i].Score = objective(analysis.Evaluate(eng))
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if (a.Err == nil) != (b.Err == nil) {
			if a.Err == nil {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return results, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]int, out *[]map[string]int) {
	if depth == len(g.axes) {
		*out = append(*out, maps.Clone(current))
		return
	}

	axis := g.axes[depth]
	for _, v := range axis.Values {
		current[axis.Name] = v
		g.searchRecursive(depth+1, current, out)
	}
	delete(current, axis.Name)
}

func apply(cfg config.Config, params map[string]int) config.Config {
	for name, v := range params {
		switch name {
		case "tau":
			cfg.Tau = v
		case "tp":
			cfg.Tp = v
		case "nn_num":
			cfg.NNNum = v
		case "nn_skip":
			cfg.NNSkip = v
		}
	}
	return cfg
}
