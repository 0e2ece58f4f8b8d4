package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/optim"
)

var (
	dataDir  string
	logLevel string
	logger   = slog.Default()

	// generation
	configFile string
	preset     string
	flagCfg    = config.DefaultConfig()

	// inspection
	dimName      string
	frame        int
	series       []string
	width        int
	height       int
	duration     float64
	perturb      float64
	outPath      string
	noSave       bool
	includeSkill bool

	// sweep
	sweepAxes = map[string]*[]int{}
	objective string
	top       int
	workers   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "takens",
		Short:         "lorenz delay embedding, cross mapping and simplex forecasting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".takens", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "generate a data set and store it",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the skill table without storing the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"x", "y", "z"}, "columns to plot")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	neighborsCmd := &cobra.Command{
		Use:   "neighbors",
		Short: "show the neighbor set of one frame",
		Args:  cobra.NoArgs,
		RunE:  showNeighbors,
	}
	addConfigFlags(neighborsCmd)
	neighborsCmd.Flags().StringVar(&dimName, "dim", "x", "dimension (x, y, z)")
	neighborsCmd.Flags().IntVar(&frame, "frame", -1, "frame index (default: first frame with neighbors)")

	skillCmd := &cobra.Command{
		Use:   "skill",
		Short: "score cross maps and forecasts against the trajectory",
		Args:  cobra.NoArgs,
		RunE:  showSkill,
	}
	addConfigFlags(skillCmd)

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "largest lyapunov exponent per integrator",
		Args:  cobra.NoArgs,
		RunE:  showLyapunov,
	}
	addConfigFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&duration, "time", 50, "integration time")
	lyapunovCmd.Flags().Float64Var(&perturb, "perturbation", 1e-8, "initial separation")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "dominant period per dimension and a suggested tau",
		Args:  cobra.NoArgs,
		RunE:  showSpectrum,
	}
	addConfigFlags(spectrumCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().BoolVar(&includeSkill, "skill", true, "include skill scores")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over embedding parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	for _, name := range optim.Params {
		vals := new([]int)
		sweepAxes[name] = vals
		sweepCmd.Flags().IntSliceVar(vals, "sweep-"+strings.ReplaceAll(name, "_", "-"), nil, "values of "+name+" to try")
	}
	sweepCmd.Flags().StringVar(&objective, "objective", "forecast", "score to maximize (forecast, crossmap)")
	sweepCmd.Flags().IntVar(&top, "top", 10, "number of results to show")
	sweepCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent engines")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, neighborsCmd, skillCmd, lyapunovCmd, spectrumCmd, sweepCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&flagCfg.NumPoints, "points", "n", flagCfg.NumPoints, "number of trajectory points")
	f.StringVar(&flagCfg.Integrator, "integrator", flagCfg.Integrator, "integrator (euler, rk4)")
	f.Float64Var(&flagCfg.Dt, "dt", flagCfg.Dt, "timestep")
	f.Float64Var(&flagCfg.Sigma, "sigma", flagCfg.Sigma, "lorenz sigma")
	f.Float64Var(&flagCfg.Rho, "rho", flagCfg.Rho, "lorenz rho")
	f.Float64Var(&flagCfg.Beta, "beta", flagCfg.Beta, "lorenz beta")
	f.Float64Var(&flagCfg.Cube, "cube", flagCfg.Cube, "display cube center")
	f.IntVar(&flagCfg.Tau, "tau", flagCfg.Tau, "embedding delay")
	f.IntVar(&flagCfg.Tp, "tp", flagCfg.Tp, "forecast horizon")
	f.IntVar(&flagCfg.NNNum, "nn-num", flagCfg.NNNum, "neighbors per frame")
	f.IntVar(&flagCfg.NNSkip, "nn-skip", flagCfg.NNSkip, "candidate stride")
}

// resolveConfig layers defaults, then a preset, then a config file, then any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return cfg, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	overrides := []struct {
		name  string
		apply func()
	}{
		{"points", func() { cfg.NumPoints = flagCfg.NumPoints }},
		{"integrator", func() { cfg.Integrator = flagCfg.Integrator }},
		{"dt", func() { cfg.Dt = flagCfg.Dt }},
		{"sigma", func() { cfg.Sigma = flagCfg.Sigma }},
		{"rho", func() { cfg.Rho = flagCfg.Rho }},
		{"beta", func() { cfg.Beta = flagCfg.Beta }},
		{"cube", func() { cfg.Cube = flagCfg.Cube }},
		{"tau", func() { cfg.Tau = flagCfg.Tau }},
		{"tp", func() { cfg.Tp = flagCfg.Tp }},
		{"nn-num", func() { cfg.NNNum = flagCfg.NNNum }},
		{"nn-skip", func() { cfg.NNSkip = flagCfg.NNSkip }},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.apply()
		}
	}

	return cfg, cfg.Validate()
}
