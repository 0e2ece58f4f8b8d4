package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/takens/internal/embedding"
	"github.com/san-kum/takens/internal/engine"
)

// Skill compares a prediction series against the observed trajectory over
// the frames where the prediction exists. Correlation is 0 when it is
// undefined (fewer than two samples or a constant series).
type Skill struct {
	Samples     int     `json:"samples"`
	Correlation float64 `json:"correlation"`
	MAE         float64 `json:"mae"`
	RMSE        float64 `json:"rmse"`
}

func (s Skill) String() string {
	return fmt.Sprintf("n=%d rho=%.4f mae=%.5f rmse=%.5f", s.Samples, s.Correlation, s.MAE, s.RMSE)
}

// CrossMapSkill scores the cross map p against the observed target
// coordinate at the same frame.
func CrossMapSkill(eng *engine.Engine, p embedding.Pair) Skill {
	var pred, obs []float64
	for frame := eng.FirstNeighborFrame(); frame < eng.Len(); frame++ {
		if eng.Neighbors(p.From, frame).Empty() {
			continue
		}
		pred = append(pred, eng.CrossMap(p, frame))
		obs = append(obs, eng.Value(p.To, frame))
	}
	return score(pred, obs)
}

// ForecastSkill scores one forecast series. A value stored at frame f
// predicts the coordinate at f for the ahead horizon and at f-tau or
// f-2*tau for the lagged ones.
func ForecastSkill(eng *engine.Engine, d embedding.Dimension, h embedding.Horizon) Skill {
	p := eng.Params()
	shift := [len(embedding.Horizons)]int{
		embedding.Ahead: 0,
		embedding.Lag1:  p.Tau,
		embedding.Lag2:  2 * p.Tau,
	}[h]

	var pred, obs []float64
	for frame := eng.FirstNeighborFrame(); frame+p.Tp < eng.Len(); frame++ {
		if eng.Neighbors(d, frame).Empty() {
			continue
		}
		target := frame + p.Tp
		pred = append(pred, eng.Forecast(d, h, target))
		obs = append(obs, eng.Value(d, target-shift))
	}
	return score(pred, obs)
}

// Report collects every skill score of one engine, keyed by series name.
type Report struct {
	CrossMaps map[string]Skill `json:"cross_maps"`
	Forecasts map[string]Skill `json:"forecasts"`
}

// Evaluate scores all six cross maps and all nine forecasts.
func Evaluate(eng *engine.Engine) Report {
	r := Report{
		CrossMaps: make(map[string]Skill, len(embedding.Pairs)),
		Forecasts: make(map[string]Skill, 3*len(embedding.Horizons)),
	}
	for _, p := range embedding.Pairs {
		r.CrossMaps[p.String()] = CrossMapSkill(eng, p)
	}
	for _, d := range embedding.Dimensions {
		for _, h := range embedding.Horizons {
			r.Forecasts[ForecastName(d, h)] = ForecastSkill(eng, d, h)
		}
	}
	return r
}

// ForecastName is the column name of a forecast series, e.g. "x_forecast"
// or "z_lag_2".
func ForecastName(d embedding.Dimension, h embedding.Horizon) string {
	return d.String() + "_" + h.String()
}

func score(pred, obs []float64) Skill {
	n := len(pred)
	s := Skill{Samples: n}
	if n == 0 {
		return s
	}

	s.MAE = floats.Distance(pred, obs, 1) / float64(n)
	s.RMSE = floats.Distance(pred, obs, 2) / math.Sqrt(float64(n))
	if n > 1 {
		if c := stat.Correlation(pred, obs, nil); !math.IsNaN(c) {
			s.Correlation = c
		}
	}
	return s
}
