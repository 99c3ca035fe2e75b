package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gridsim/internal/analysis"
	"github.com/san-kum/gridsim/internal/config"
	"github.com/san-kum/gridsim/internal/experiment"
	"github.com/san-kum/gridsim/internal/export"
	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
	"github.com/san-kum/gridsim/internal/storage"
	"github.com/san-kum/gridsim/internal/tui"
	"github.com/san-kum/gridsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	steps      int
	width      int
	height     int
	diagonals  bool
	wrap       bool
	delay      time.Duration
	frameSkip  int
	params     []string
	save       bool
	watch      bool
	frameRate  int
	plain      bool
	scale      float64
	copies     int
	svgPath    string
	spectrum   bool
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:           "gridsim",
		Short:         "2D stencil simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			log.SetOutput(os.Stderr)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gridsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&watch, "watch", false, "redraw the field while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")
	runCmd.Flags().BoolVar(&plain, "plain", false, "print rounded values instead of a heatmap")
	runCmd.Flags().Float64Var(&scale, "scale", 0, "value drawn at full heat (0 = field maximum)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "run independent copies concurrently and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchModel,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().IntVar(&copies, "copies", 4, "number of concurrent engines")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run's final field",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&plain, "plain", false, "print rounded values instead of a heatmap")
	showCmd.Flags().Float64Var(&scale, "scale", 0, "value drawn at full heat (0 = field maximum)")
	showCmd.Flags().StringVar(&svgPath, "svg", "", "also write the field as SVG to this path")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the chart as SVG to this path")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the frequency spectrum of the history instead")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and their parameters",
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path] [model]",
		Short: "write a run config file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, listCmd, showCmd, plotCmd, exportCmd, modelsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "grid width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "grid height")
	cmd.Flags().BoolVar(&diagonals, "diagonals", true, "include diagonal neighbors")
	cmd.Flags().BoolVar(&wrap, "wrap", false, "periodic boundaries")
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between frames")
	cmd.Flags().IntVar(&frameSkip, "frame-skip", 0, "steps skipped between frames")
	cmd.Flags().StringArrayVar(&params, "param", nil, "model parameter as key=value (repeatable)")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 && loaded.Model != args[0] {
			return nil, fmt.Errorf("config %s is for model %s, not %s", configFile, loaded.Model, args[0])
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("diagonals") {
		cfg.Diagonals = diagonals
	}
	if flags.Changed("wrap") {
		cfg.Wrap = wrap
	}
	if flags.Changed("delay") {
		cfg.Delay = delay.String()
	}
	if flags.Changed("frame-skip") {
		cfg.FrameSkip = frameSkip
	}
	if len(params) > 0 {
		parsed, err := parseParams(params)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		for k, v := range parsed {
			cfg.Params[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseParams(raw []string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid param %q, want key=value", kv)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid param %q: %w", kv, err)
		}
		out[strings.TrimSpace(k)] = f
	}
	return out, nil
}

// setupExperiment builds a ready experiment from cfg, initial conditions
// included.
func setupExperiment(reg *experiment.Registry, cfg *config.Config, entry *logrus.Entry) (*experiment.Experiment, error) {
	ec, err := cfg.ExperimentConfig()
	if err != nil {
		return nil, err
	}
	exp := experiment.New(ec)
	if err := exp.Setup(reg, entry); err != nil {
		return nil, err
	}
	return exp, nil
}

func render(rows [][]float64, obstacles [][]bool) string {
	if plain {
		return viz.Plain(rows)
	}
	s := scale
	if s <= 0 {
		s = viz.AutoScale(rows)
	}
	return viz.Heatmap(rows, obstacles, s)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	entry := logrus.NewEntry(log)
	exp, err := setupExperiment(registry, cfg, entry)
	if err != nil {
		return err
	}
	engine := exp.Engine()
	rc := exp.Config().Run

	if watch {
		live := tui.NewLiveRenderer(os.Stdout, cfg.Model, frameRate)
		live.SetScale(scale)
		live.SetObstacles(engine.Obstacles())
		live.Start()
		defer live.Stop()
		exp.Runner().AddObserver(live)
	}

	sessions := sim.NewSessions(entry.WithField("model", cfg.Model))
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			entry.Info("interrupt received, stopping")
			sessions.StopAll()
		}
	}()

	fmt.Printf("running %s simulation...\n", cfg.Model)
	if _, err := exp.Start(context.Background(), sessions, "cli"); err != nil {
		return err
	}
	result, err := sessions.Wait("cli")
	if err != nil {
		return err
	}

	if !watch {
		fmt.Println(render(result.Final, engine.Obstacles()))
	}
	fmt.Println(viz.Summary(viz.SummaryInfo{
		Model:   cfg.Model,
		Width:   engine.Width(),
		Height:  engine.Height(),
		Steps:   result.Steps,
		Stopped: result.Stopped,
		Metrics: result.Metrics,
	}))
	fmt.Printf("completed in %v\n", result.Elapsed)

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	resolved, err := registry.Resolve(cfg.Model, cfg.Params)
	if err != nil {
		return err
	}
	runID, err := st.Save(storage.RunRecord{
		Model:     cfg.Model,
		Params:    resolved,
		Config:    rc,
		Result:    result,
		Obstacles: engine.Obstacles(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	interval := cfg.DelayDurationOr(time.Second / 30)
	m, err := tui.New(func() (*stencil.Engine, error) {
		exp, err := setupExperiment(registry, cfg, nil)
		if err != nil {
			return nil, err
		}
		return exp.Engine(), nil
	}, tui.Options{
		Model:     cfg.Model,
		Steps:     cfg.Steps,
		Diagonals: cfg.Diagonals,
		Wrap:      cfg.Wrap,
		Interval:  interval,
		Metrics:   registry.DefaultMetrics(cfg.Model),
	})
	if err != nil {
		return err
	}
	return tui.Run(m)
}

func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if copies <= 0 {
		return fmt.Errorf("copies must be positive, got %d", copies)
	}

	registry := experiment.NewRegistry()
	runners := make([]*sim.Runner, copies)
	var rc sim.Config
	for i := range runners {
		exp, err := setupExperiment(registry, cfg, log.WithField("copy", i))
		if err != nil {
			return err
		}
		runners[i] = exp.Runner()
		rc = exp.Config().Run
	}
	rc.Delay = 0

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("benchmarking %s: %d copies of %dx%d for %d steps\n\n", cfg.Model, copies, cfg.Width, cfg.Height, rc.Steps)
	start := time.Now()
	results, err := sim.NewEnsemble(runners...).Run(ctx, rc)
	if err != nil {
		return err
	}
	wall := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COPY\tSTEPS\tTIME\tCELLS/SEC\tMETRIC")
	cells := float64(cfg.Width * cfg.Height)
	total := 0
	for i, res := range results {
		total += res.Steps
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.6g\n",
			i, res.Steps, res.Elapsed, cells*float64(res.Steps)/res.Elapsed.Seconds(), res.History[len(res.History)-1])
	}
	fmt.Fprintf(w, "all\t%d\t%v\t%.0f\t\n", total, wall, cells*float64(total)/wall.Seconds())
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tGRID\tSTEPS\tDIAG\tWRAP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%t\t%t\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Steps,
			run.Diagonals,
			run.Wrap,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadSnapshot(meta.ID)
	if err != nil {
		return err
	}
	obstacles, err := st.LoadObstacles(meta.ID, meta.Width, meta.Height)
	if err != nil {
		return err
	}

	fmt.Println(render(rows, obstacles))
	if svgPath != "" {
		s := scale
		if s <= 0 {
			s = viz.AutoScale(rows)
		}
		if err := os.WriteFile(svgPath, []byte(export.FieldToSVG(rows, obstacles, s, 8)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	fmt.Println(viz.Summary(viz.SummaryInfo{
		Model:   meta.Model,
		Width:   meta.Width,
		Height:  meta.Height,
		Steps:   meta.Steps,
		Stopped: meta.Stopped,
		Metrics: meta.Metrics,
	}))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(history))
	if spectrum {
		return plotSpectrum(history)
	}
	fmt.Println(viz.HistoryChart(history, "metric vs step"))
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.HistoryToSVG(history, 800, 300, "#00ffff")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func plotSpectrum(history []float64) error {
	if len(history) < 4 {
		return fmt.Errorf("need at least 4 samples for a spectrum, have %d", len(history))
	}
	s := analysis.Analyze(history)
	fmt.Println(viz.HistoryChart(s.Magnitudes, "magnitude vs frequency bin"))
	fmt.Println()

	bin, mag := s.Peak()
	if bin == 0 || mag == 0 {
		fmt.Println("no periodic component")
		return nil
	}
	fmt.Printf("dominant bin: %d of %d\n", bin, len(s.Magnitudes))
	fmt.Printf("period: %.2f steps\n", s.Period(bin))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}
	rows, err := st.LoadSnapshot(meta.ID)
	if err != nil {
		return err
	}
	obstacles, err := st.LoadObstacles(meta.ID, meta.Width, meta.Height)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, storage.RunRecord{
		Model:  meta.Model,
		Params: meta.Params,
		Config: sim.Config{Steps: meta.Steps, Diagonals: meta.Diagonals, Wrap: meta.Wrap},
		Result: &sim.Result{
			Steps:   meta.Steps,
			History: history,
			Metrics: meta.Metrics,
			Final:   rows,
			Stopped: meta.Stopped,
		},
		Obstacles: obstacles,
	})
}

func listModels(cmd *cobra.Command, args []string) error {
	fmt.Println(viz.GradientText("gridsim models", "#00ffff", "#ff00ff"))
	for _, m := range experiment.NewRegistry().List() {
		fmt.Printf("\n  %s  %s\n", viz.Title.Render(m.Name), viz.Subtle.Render(m.Description))
		for _, p := range m.Params {
			req := fmt.Sprintf("default %g", p.Default)
			if p.Required {
				req = "required"
			}
			fmt.Printf("    %-12s %s (%s)\n", p.Name, p.Description, req)
		}
		if presets := config.ListPresets(m.Name); len(presets) > 0 {
			fmt.Printf("    presets: %s\n", strings.Join(presets, ", "))
		}
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(args) > 1 {
		cfg.Model = args[1]
	}
	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	}
	if _, err := experiment.NewRegistry().Get(cfg.Model); err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
