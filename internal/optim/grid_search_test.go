package optim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/takens/internal/analysis"
	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/dynamo"
)

func baseConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.NumPoints = 600
	return cfg
}

func TestGridSearchEnumerates(t *testing.T) {
	g := NewGridSearch(
		Axis{Name: "tau", Values: []int{1, 3, 5}},
		Axis{Name: "nn_num", Values: []int{2, 4}},
	)
	g.SetWorkers(2)

	results, err := g.Search(context.Background(), baseConfig(), MeanForecastCorrelation)
	require.NoError(t, err)
	require.Len(t, results, 6)

	seen := map[[2]int]bool{}
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, r.Params["tau"], r.Config.Tau)
		assert.Equal(t, r.Params["nn_num"], r.Config.NNNum)
		seen[[2]int{r.Config.Tau, r.Config.NNNum}] = true
	}
	assert.Len(t, seen, 6)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestGridSearchInvalidPointsLast(t *testing.T) {
	// tau 400 leaves no frame with neighbors in 600 points
	g := NewGridSearch(Axis{Name: "tau", Values: []int{400, 5}})

	results, err := g.Search(context.Background(), baseConfig(), MeanCrossMapCorrelation)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 5, results[0].Config.Tau)
	assert.ErrorIs(t, results[1].Err, dynamo.ErrParameterBounds)
}

func TestGridSearchUnknownParam(t *testing.T) {
	g := NewGridSearch(Axis{Name: "dt", Values: []int{1}})
	_, err := g.Search(context.Background(), baseConfig(), MeanForecastCorrelation)
	assert.ErrorIs(t, err, dynamo.ErrUnknownParameter)
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch(Axis{Name: "tau", Values: []int{1, 2, 3}})
	_, err := g.Search(ctx, baseConfig(), MeanForecastCorrelation)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridSearchNoAxes(t *testing.T) {
	results, err := NewGridSearch().Search(context.Background(), baseConfig(), MeanForecastCorrelation)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, baseConfig(), results[0].Config)
}

func TestMeanCorrelation(t *testing.T) {
	r := analysis.Report{
		Forecasts: map[string]analysis.Skill{
			"x_forecast": {Correlation: 0.5},
			"y_forecast": {Correlation: 1.0},
		},
	}
	assert.InDelta(t, 0.75, MeanForecastCorrelation(r), 1e-12)
	assert.Zero(t, MeanCrossMapCorrelation(r))
}
