package engine_test

import (
	"bytes"
	"log/slog"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/dynamo"
	"github.com/san-kum/takens/internal/embedding"
	"github.com/san-kum/takens/internal/engine"
)

func scenarioConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.NumPoints = 200
	cfg.Integrator = "euler"
	cfg.Tau, cfg.Tp = 5, 5
	cfg.NNNum, cfg.NNSkip = 4, 5
	return cfg
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("rejects configurations that could never produce neighbors", func() {
			cfg := scenarioConfig()
			cfg.NumPoints = 30

			_, err := engine.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects a non-positive neighborhood size", func() {
			cfg := scenarioConfig()
			cfg.NNNum = 0

			_, err := engine.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects unknown integrators", func() {
			cfg := scenarioConfig()
			cfg.Integrator = "midpoint"

			_, err := engine.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrUnknownIntegrator))
		})

		It("logs each generation phase", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			_, err := engine.New(scenarioConfig(), engine.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("generating attractor"))
			Expect(buf.String()).To(ContainSubstring("generating cross maps"))
			Expect(buf.String()).To(ContainSubstring("generating forecasts"))
		})
	})

	Describe("the 200-point euler scenario", func() {
		var eng *engine.Engine

		BeforeEach(func() {
			var err error
			eng, err = engine.New(scenarioConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts from the fixed initial condition before normalization", func() {
			b := eng.Bounds()
			for _, d := range embedding.Dimensions {
				raw := (eng.Value(d, 0)-b.Cube)/b.Scale + b.Center[d]
				Expect(raw).To(BeNumerically("~", 20, 1e-9))
			}
		})

		It("finds neighbors from frame 30 on", func() {
			Expect(eng.FirstNeighborFrame()).To(Equal(30))
			Expect(eng.Neighbors(embedding.X, 29).Len()).To(Equal(0))
			Expect(eng.Neighbors(embedding.X, 30).Len()).To(Equal(4))
			Expect(eng.Neighbors(embedding.X, 30).Weights[0]).To(Equal(1.0))
		})

		It("keeps every normalized sample inside the display cube", func() {
			d := eng.Config().Cube
			for _, dim := range embedding.Dimensions {
				for _, v := range eng.Series(dim) {
					Expect(v).To(BeNumerically(">=", d-0.75*d-1e-12))
					Expect(v).To(BeNumerically("<=", d+0.75*d+1e-12))
				}
			}
		})

		It("spans the full cube on the widest axis", func() {
			b := eng.Bounds()
			widest := 0.0
			for d := range b.Min {
				widest = math.Max(widest, b.Max[d]-b.Min[d])
			}
			Expect(b.Scale).To(BeNumerically("~", 1.5*b.Cube/widest, 1e-15))
		})

		It("leaves cross maps at zero before the first neighbor frame", func() {
			for _, p := range embedding.Pairs {
				series := eng.CrossMapSeries(p)
				Expect(series).To(HaveLen(200))
				for frame := 0; frame < 30; frame++ {
					Expect(series[frame]).To(BeZero())
				}
				Expect(series[30]).NotTo(BeZero())
			}
		})

		It("writes forecasts only tp frames past a neighbor frame", func() {
			for _, d := range embedding.Dimensions {
				for _, h := range embedding.Horizons {
					series := eng.ForecastSeries(d, h)
					for i := 0; i < 35; i++ {
						Expect(series[i]).To(BeZero())
					}
					Expect(series[35]).NotTo(BeZero())
					Expect(eng.Forecast(d, h, 199)).NotTo(BeZero())
				}
			}
		})

		It("hands out copies rather than internal state", func() {
			s := eng.Series(embedding.Y)
			s[0] = -1
			Expect(eng.Value(embedding.Y, 0)).NotTo(Equal(-1.0))

			set := eng.Neighbors(embedding.Z, 50)
			set.Indices[0] = -1
			Expect(eng.Neighbors(embedding.Z, 50).Indices[0]).NotTo(Equal(-1))

			xm := eng.CrossMapSeries(embedding.Pair{From: embedding.X, To: embedding.Y})
			xm[40] = -1
			Expect(eng.CrossMap(embedding.Pair{From: embedding.X, To: embedding.Y}, 40)).NotTo(Equal(-1.0))
		})

		It("panics on out-of-range frames", func() {
			Expect(func() { eng.Value(embedding.X, 200) }).To(Panic())
			Expect(func() { eng.Neighbors(embedding.X, -1) }).To(Panic())
		})

		It("wraps a playback counter into the frame range", func() {
			Expect(eng.Frame(0)).To(Equal(0))
			Expect(eng.Frame(42.7)).To(Equal(42))
			Expect(eng.Frame(200)).To(Equal(0))
			Expect(eng.Frame(450.5)).To(Equal(50))
			Expect(eng.Frame(-1)).To(Equal(199))
			Expect(eng.Frame(math.NaN())).To(Equal(0))
		})

		It("can be read concurrently", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					for frame := 0; frame < eng.Len(); frame++ {
						_ = eng.Neighbors(embedding.Y, frame)
						_ = eng.CrossMap(embedding.Pair{From: embedding.Y, To: embedding.Z}, frame)
					}
				}()
			}
			wg.Wait()
		})
	})

	Describe("determinism", func() {
		It("produces identical data for identical configurations", func() {
			for _, scheme := range []string{"euler", "rk4"} {
				cfg := scenarioConfig()
				cfg.NumPoints = 600
				cfg.Integrator = scheme

				a, err := engine.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				b, err := engine.New(cfg)
				Expect(err).NotTo(HaveOccurred())

				for _, d := range embedding.Dimensions {
					Expect(a.Series(d)).To(Equal(b.Series(d)))
					Expect(a.ForecastSeries(d, embedding.Ahead)).To(Equal(b.ForecastSeries(d, embedding.Ahead)))
				}
			}
		})

		It("integrates the configured system parameters", func() {
			cfg := scenarioConfig()
			classic, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.Rho = 35
			tuned, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(tuned.Config().SystemParams()).To(HaveKeyWithValue("rho", 35.0))
			Expect(tuned.Series(embedding.X)).NotTo(Equal(classic.Series(embedding.X)))
		})

		It("gives different trajectories for euler and rk4", func() {
			cfg := scenarioConfig()
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			cfg.Integrator = "rk4"
			r, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(e.Series(embedding.X)).NotTo(Equal(r.Series(embedding.X)))
		})
	})

	Describe("degenerate neighborhoods", func() {
		It("reduces to a nearest-neighbor lookup when nn_num is 1", func() {
			cfg := scenarioConfig()
			cfg.NumPoints = 400
			cfg.NNNum = 1
			eng, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			for frame := eng.FirstNeighborFrame(); frame < eng.Len(); frame++ {
				set := eng.Neighbors(embedding.X, frame)
				Expect(set.Weights).To(Equal([]float64{1.0}))
				Expect(eng.CrossMap(embedding.Pair{From: embedding.X, To: embedding.Z}, frame)).
					To(Equal(eng.Value(embedding.Z, set.Indices[0])))
			}
		})

		It("collapses the embedding to one coordinate when tau is 0", func() {
			cfg := scenarioConfig()
			cfg.Tau = 0
			eng, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.FirstNeighborFrame()).To(Equal(20))

			frame := 120
			set := eng.Neighbors(embedding.Y, frame)
			cur := eng.Value(embedding.Y, frame)
			for i, idx := range set.Indices {
				oneD := math.Abs(eng.Value(embedding.Y, idx) - cur)
				Expect(set.Distances[i]).To(BeNumerically("~", math.Sqrt(3)*oneD, 1e-12))
			}
		})
	})
})
