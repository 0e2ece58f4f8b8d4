package engine

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/dynamo"
	"github.com/san-kum/takens/internal/embedding"
	"github.com/san-kum/takens/internal/integrators"
	"github.com/san-kum/takens/internal/physics"
)

// Engine holds one fully generated data set. New runs the whole pipeline;
// afterwards the engine is read-only and safe for concurrent readers.
type Engine struct {
	cfg       config.Config
	params    embedding.Params
	bounds    Bounds
	series    [3][]float64
	neighbors [3][]embedding.NeighborSet
	xmaps     embedding.CrossMaps
	forecasts embedding.Forecasts
	logger    *slog.Logger
}

type Option func(*Engine)

// WithLogger routes progress messages to l. By default they are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New validates cfg and generates the trajectory, neighbor sets, cross maps
// and forecasts. A configuration error is returned before any work starts.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg: cfg,
		params: embedding.Params{
			Tau:    cfg.Tau,
			Tp:     cfg.Tp,
			NNNum:  cfg.NNNum,
			NNSkip: cfg.NNSkip,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.generate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) generate() error {
	start := time.Now()
	log := e.logger.With("num_points", e.cfg.NumPoints, "integrator", e.cfg.Integrator)

	integ, err := integrators.Lookup(e.cfg.Integrator)
	if err != nil {
		return err
	}
	sys := physics.NewLorenz()
	if err := dynamo.Configure(sys, e.cfg.SystemParams()); err != nil {
		return err
	}
	log.Debug("configured system", "params", sys.GetParams())

	log.Info("generating attractor", "dt", e.cfg.Dt)
	tr, err := Integrate(sys, integ, sys.DefaultState(), e.cfg.NumPoints, e.cfg.Dt)
	if err != nil {
		log.Error("integration failed", "error", err)
		return err
	}
	e.bounds = Normalize(tr, e.cfg.Cube)
	e.series = tr.series()
	log.Debug("normalized trajectory", "scale", e.bounds.Scale)

	log.Info("finding neighbors", "tau", e.params.Tau, "nn_num", e.params.NNNum, "nn_skip", e.params.NNSkip)
	var wg sync.WaitGroup
	for _, d := range embedding.Dimensions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.neighbors[d] = embedding.FindNeighbors(e.series[d], e.params)
		}()
	}
	wg.Wait()

	log.Info("generating cross maps")
	e.xmaps = embedding.CrossMap(e.series, e.neighbors, e.params)

	log.Info("generating forecasts", "tp", e.params.Tp)
	e.forecasts = embedding.Forecast(e.series, e.neighbors, e.params)

	log.Info("generation complete", "elapsed", time.Since(start))
	return nil
}

func (e *Engine) Config() config.Config { return e.cfg }

func (e *Engine) Params() embedding.Params { return e.params }

func (e *Engine) Bounds() Bounds { return e.bounds }

func (e *Engine) Len() int { return e.cfg.NumPoints }

// FirstNeighborFrame is the earliest frame with a non-empty neighbor set.
func (e *Engine) FirstNeighborFrame() int { return e.params.FirstFrame() }

// Value returns the normalized trajectory coordinate d at index i.
func (e *Engine) Value(d embedding.Dimension, i int) float64 {
	return e.series[d][i]
}

// Series returns a copy of the normalized coordinate series d.
func (e *Engine) Series(d embedding.Dimension) []float64 {
	return slices.Clone(e.series[d])
}

// Neighbors returns a copy of the neighbor set of dimension d at frame.
func (e *Engine) Neighbors(d embedding.Dimension, frame int) embedding.NeighborSet {
	return e.neighbors[d][frame].Clone()
}

func (e *Engine) CrossMap(p embedding.Pair, frame int) float64 {
	return e.xmaps.At(p, frame)
}

func (e *Engine) CrossMapSeries(p embedding.Pair) []float64 {
	return slices.Clone(e.xmaps.Series(p))
}

func (e *Engine) Forecast(d embedding.Dimension, h embedding.Horizon, frame int) float64 {
	return e.forecasts.At(d, h, frame)
}

func (e *Engine) ForecastSeries(d embedding.Dimension, h embedding.Horizon) []float64 {
	return slices.Clone(e.forecasts.Series(d, h))
}

// Frame converts a free-running playback counter into a valid frame index,
// wrapping it around the trajectory length.
func (e *Engine) Frame(runtime float64) int {
	n := float64(e.Len())
	if math.IsNaN(runtime) || math.IsInf(runtime, 0) {
		return 0
	}
	r := math.Mod(runtime, n)
	if r < 0 {
		r += n
	}
	return min(int(r), e.Len()-1)
}
