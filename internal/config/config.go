package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/takens/internal/dynamo"
	"github.com/san-kum/takens/internal/integrators"
	"github.com/san-kum/takens/internal/physics"
)

const (
	DefaultNumPoints  = 10000
	DefaultIntegrator = "euler"
	DefaultDt         = 0.01
	DefaultCube       = 0.85
	DefaultTau        = 7
	DefaultTp         = 7
	DefaultNNNum      = 4
	DefaultNNSkip     = 5
)

// Config is the complete, immutable input of one generation pass.
type Config struct {
	NumPoints  int     `yaml:"num_points" json:"num_points"`
	Integrator string  `yaml:"integrator" json:"integrator"`
	Dt         float64 `yaml:"dt" json:"dt"`
	Sigma      float64 `yaml:"sigma" json:"sigma"`
	Rho        float64 `yaml:"rho" json:"rho"`
	Beta       float64 `yaml:"beta" json:"beta"`
	// Cube is the center d of the normalization cube; the widest axis spans
	// [d - 0.75d, d + 0.75d].
	Cube   float64 `yaml:"cube" json:"cube"`
	Tau    int     `yaml:"tau" json:"tau"`
	Tp     int     `yaml:"tp" json:"tp"`
	NNNum  int     `yaml:"nn_num" json:"nn_num"`
	NNSkip int     `yaml:"nn_skip" json:"nn_skip"`
}

func DefaultConfig() Config {
	return Config{
		NumPoints:  DefaultNumPoints,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Sigma:      physics.DefaultSigma,
		Rho:        physics.DefaultRho,
		Beta:       physics.DefaultBeta,
		Cube:       DefaultCube,
		Tau:        DefaultTau,
		Tp:         DefaultTp,
		NNNum:      DefaultNNNum,
		NNSkip:     DefaultNNSkip,
	}
}

// Load reads a yaml file on top of DefaultConfig, so absent keys keep their
// defaults. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SystemParams are the Lorenz parameters keyed by the names the system
// accepts in SetParam.
func (c Config) SystemParams() map[string]float64 {
	return map[string]float64{"sigma": c.Sigma, "rho": c.Rho, "beta": c.Beta}
}

// FirstNeighborFrame is the earliest frame that receives a neighbor set.
func (c Config) FirstNeighborFrame() int {
	return 2*c.Tau + c.NNSkip*c.NNNum
}

// Validate rejects configurations under which no frame could ever be
// cross-mapped or forecast, instead of letting them silently degrade.
func (c Config) Validate() error {
	if c.NumPoints < 1 {
		return bounds("num_points must be at least 1, got %d", c.NumPoints)
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return bounds("dt must be positive and finite, got %v", c.Dt)
	}
	for name, v := range map[string]float64{"sigma": c.Sigma, "rho": c.Rho, "beta": c.Beta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return bounds("%s must be finite, got %v", name, v)
		}
	}
	if c.Cube <= 0 || math.IsInf(c.Cube, 0) {
		return bounds("cube must be positive and finite, got %v", c.Cube)
	}
	if c.Tau < 0 {
		return bounds("tau must be non-negative, got %d", c.Tau)
	}
	if c.Tp < 0 {
		return bounds("tp must be non-negative, got %d", c.Tp)
	}
	if c.NNNum <= 0 {
		return bounds("nn_num must be positive, got %d", c.NNNum)
	}
	if c.NNSkip <= 0 {
		return bounds("nn_skip must be positive, got %d", c.NNSkip)
	}
	if first := c.FirstNeighborFrame(); c.NumPoints <= first {
		return bounds("num_points must exceed 2*tau + nn_skip*nn_num = %d, got %d", first, c.NumPoints)
	}
	if c.Tp >= c.NumPoints {
		return bounds("tp must be below num_points (%d), got %d", c.NumPoints, c.Tp)
	}
	if _, err := integrators.Lookup(c.Integrator); err != nil {
		return err
	}
	return nil
}

func bounds(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...)
}
