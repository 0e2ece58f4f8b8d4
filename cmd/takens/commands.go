package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/takens/internal/analysis"
	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/dynamo"
	"github.com/san-kum/takens/internal/embedding"
	"github.com/san-kum/takens/internal/engine"
	"github.com/san-kum/takens/internal/integrators"
	"github.com/san-kum/takens/internal/optim"
	"github.com/san-kum/takens/internal/physics"
	"github.com/san-kum/takens/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func buildEngine(cfg config.Config) (*engine.Engine, error) {
	return engine.New(cfg, engine.WithLogger(logger))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	report := analysis.Evaluate(eng)

	fmt.Println(titleStyle.Render(fmt.Sprintf("lorenz %s, %d points", cfg.Integrator, cfg.NumPoints)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("tau=%d tp=%d nn_num=%d nn_skip=%d first neighbor frame=%d",
		cfg.Tau, cfg.Tp, cfg.NNNum, cfg.NNSkip, eng.FirstNeighborFrame())))
	fmt.Println()
	if err := printReport(os.Stdout, report); err != nil {
		return err
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(eng, report)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", runID, "dir", dataDir)
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printReport(out io.Writer, report analysis.Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tN\tRHO\tMAE\tRMSE")

	for _, p := range embedding.Pairs {
		s := report.CrossMaps[p.String()]
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.5f\t%.5f\n", storage.CrossMapColumn(p), s.Samples, s.Correlation, s.MAE, s.RMSE)
	}
	for _, d := range embedding.Dimensions {
		for _, h := range embedding.Horizons {
			name := analysis.ForecastName(d, h)
			s := report.Forecasts[name]
			fmt.Fprintf(w, "%s\t%d\t%.4f\t%.5f\t%.5f\n", name, s.Samples, s.Correlation, s.MAE, s.RMSE)
		}
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPOINTS\tINTEG\tDT\tTAU\tTP\tNN\tSKIP")

	for _, run := range runs {
		c := run.Config
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.4f\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			c.NumPoints,
			c.Integrator,
			c.Dt,
			c.Tau,
			c.Tp,
			c.NNNum,
			c.NNSkip,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	table, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(titleStyle.Render("run: " + meta.ID))
	fmt.Printf("samples: %d\n\n", len(table.Rows))

	for _, name := range series {
		data := table.Column(strings.TrimSpace(name))
		if data == nil {
			return fmt.Errorf("unknown series %q (available: %s)", name, strings.Join(table.Columns[1:], ", "))
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func showNeighbors(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	dim, err := embedding.ParseDimension(dimName)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	f := frame
	if f < 0 {
		f = eng.FirstNeighborFrame()
	}
	if f >= eng.Len() {
		return fmt.Errorf("frame %d out of range [0, %d)", f, eng.Len())
	}

	set := eng.Neighbors(dim, f)
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s neighbors at frame %d", dim, f)))
	if set.Empty() {
		fmt.Println(dimStyle.Render(fmt.Sprintf("none: neighbors start at frame %d", eng.FirstNeighborFrame())))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tFRAME\tDISTANCE\tWEIGHT")
	for i := range set.Indices {
		fmt.Fprintf(w, "%d\t%d\t%.6f\t%.6f\n", i, set.Indices[i], set.Distances[i], set.Weights[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, p := range embedding.Pairs {
		if p.From != dim {
			continue
		}
		fmt.Printf("%s: predicted %.6f observed %.6f\n", p, eng.CrossMap(p, f), eng.Value(p.To, f))
	}
	if target := f + cfg.Tp; target < eng.Len() {
		fmt.Printf("%s at frame %d: predicted %.6f observed %.6f\n",
			analysis.ForecastName(dim, embedding.Ahead), target, eng.Forecast(dim, embedding.Ahead, target), eng.Value(dim, target))
	}
	return nil
}

func showSkill(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	return printReport(os.Stdout, analysis.Evaluate(eng))
}

func showLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sys := physics.NewLorenz()
	if err := dynamo.Configure(sys, cfg.SystemParams()); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tLAMBDA\tCHAOTIC")
	for _, name := range integrators.Names() {
		integ, err := integrators.Lookup(name)
		if err != nil {
			return err
		}
		lambda := analysis.LyapunovExponent(sys, integ, sys.DefaultState(), cfg.Dt, duration, perturb)
		fmt.Fprintf(w, "%s\t%.4f\t%t\n", name, lambda, lambda > 0)
	}
	return w.Flush()
}

func showSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIM\tPERIOD (frames)\tPERIOD (time)\tSUGGESTED TAU")
	for _, d := range embedding.Dimensions {
		s := eng.Series(d)
		period := analysis.DominantPeriod(s)
		fmt.Fprintf(w, "%s\t%.1f\t%.3f\t%d\n", d, period, period*cfg.Dt, analysis.SuggestTau(s))
	}
	return w.Flush()
}

// rebuild regenerates a stored run from its configuration. Generation is
// deterministic so the result matches what was saved.
func rebuild(runID string) (*storage.RunMetadata, *engine.Engine, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	eng, err := buildEngine(meta.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return meta, eng, nil
}

func withOutput(fn func(io.Writer) error) error {
	if outPath == "" {
		return fn(os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, eng, err := rebuild(args[0])
	if err != nil {
		return err
	}
	return withOutput(func(w io.Writer) error {
		return storage.WriteCSV(w, eng)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, eng, err := rebuild(args[0])
	if err != nil {
		return err
	}
	if !includeSkill {
		meta.Skill = analysis.Report{}
	}
	return withOutput(func(w io.Writer) error {
		return storage.ExportJSON(w, *meta, eng)
	})
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPOINTS\tINTEG\tTAU\tTP\tNN\tSKIP")
	for _, name := range config.ListPresets() {
		c, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\t%d\n", name, c.NumPoints, c.Integrator, c.Tau, c.Tp, c.NNNum, c.NNSkip)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	obj, ok := optim.Objectives[objective]
	if !ok {
		return fmt.Errorf("unknown objective: %s", objective)
	}

	var axes []optim.Axis
	for _, name := range optim.Params {
		if vals := *sweepAxes[name]; len(vals) > 0 {
			axes = append(axes, optim.Axis{Name: name, Values: vals})
		}
	}
	if len(axes) == 0 {
		return fmt.Errorf("nothing to sweep: set at least one of --sweep-tau, --sweep-tp, --sweep-nn-num, --sweep-nn-skip")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(axes...)
	g.SetWorkers(workers)

	start := time.Now()
	results, err := g.Search(ctx, base, obj)
	if err != nil {
		return err
	}
	logger.Info("sweep complete", "points", len(results), "elapsed", time.Since(start))

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d configurations, objective %s", len(results), objective)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tTAU\tTP\tNN\tSKIP\tSCORE")
	for i, r := range topResults(results, top) {
		c := r.Config
		score := fmt.Sprintf("%.4f", r.Score)
		if r.Err != nil {
			score = dimStyle.Render("invalid")
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%s\n", i+1, c.Tau, c.Tp, c.NNNum, c.NNSkip, score)
	}
	return w.Flush()
}

// topResults returns at most n leading results; a negative n yields none.
func topResults(results []optim.Result, n int) []optim.Result {
	return results[:min(max(n, 0), len(results))]
}
