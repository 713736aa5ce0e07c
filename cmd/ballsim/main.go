package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-logr/logr"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/automation"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/logging"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/render"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/tui"
	"github.com/san-kum/ballsim/internal/viz"
)

var (
	dataDir    string
	verbose    int
	configFile string
	preset     string
	integrator string
	frames     int
	substeps   int
	gravity    float64
	dampening  float64
	// live view
	frameRate int
	logFile   string
	// run --watch
	watch bool
	// export-svg
	outFile string
	// sweep
	sweepParam  string
	sweepValues string
	workers     int
	// montecarlo
	trials       int
	perturbation float64
	seed         int64
	// scenario
	saveRuns bool
	// analyze
	phaseAxis string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ballsim",
		Short:        "bouncing ball simulation",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "data directory")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the ball in the terminal while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 60, "redraw rate for --watch")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	liveCmd.Flags().StringVar(&logFile, "log-file", "ballsim.log", "log file (stdout is the UI)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and phase-space analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&phaseAxis, "axis", "y", "phase portrait axis (x or y)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFRAMES\tGRAVITY\tDAMPENING\tSUBSTEPS\tPOSITION\tVELOCITY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%d\t(%.1f, %.1f)\t(%.1f, %.1f)\n",
					name,
					p.Frames,
					p.Physics.Gravity,
					p.Physics.Dampening,
					p.Physics.Substeps,
					p.Physics.InitPosition.X, p.Physics.InitPosition.Y,
					p.Physics.InitVelocity.X, p.Physics.InitVelocity.Y,
				)
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same configuration",
		RunE:  compareIntegrators,
	}
	addPhysicsFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per parameter value concurrently",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dampening", "parameter to sweep (dampening, gravity, substeps)")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "0.5,0.7,0.9,1.0", "comma-separated values")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent simulations")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", true, "save every step as a run")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials with perturbed initial velocity",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addPhysicsFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 1.0, "max velocity perturbation per axis")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 4, "concurrent simulations")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, sweepCmd, scenarioCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", "symplectic", "integrator")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	cmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "sub-steps per frame")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration")
	cmd.Flags().Float64Var(&dampening, "dampening", config.DefaultDampening, "velocity retained on bounce")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command, log logr.Logger) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		log.V(1).Info("using preset", "name", preset)
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log.V(1).Info("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("substeps") {
		cfg.Physics.Substeps = substeps
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("dampening") {
		cfg.Physics.Dampening = dampening
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() logr.Logger {
	return logging.New(os.Stderr, verbose)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, log)
	if err := exp.Setup(experiment.NewRegistry(), sim.NewWallClock()); err != nil {
		return err
	}

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Window.Title, cfg.Window.Width, cfg.Window.Height(), frameRate)
		r.SetPace(time.Duration(cfg.Physics.FixedDt * float64(time.Second)))
		if err := r.Start(); err != nil {
			return err
		}
		defer r.Stop()
		exp.GetSimulator().SetRenderer(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation (%d frames)...\n", cfg.Integrator, cfg.Frames)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, dynamo.ErrContextCanceled) {
		return err
	}
	if err != nil {
		log.Info("run interrupted, saving partial result", "frames", result.FramesRun)
	}

	elapsed := time.Since(start)

	meta := storage.NewMetadata(preset, cfg.Integrator, exp.Constants())
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}
	log.V(1).Info("run saved", "id", runID, "dir", dataDir)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("bounces: %d\n", result.Bounces)
	if final := result.Final(); final != nil {
		fmt.Printf("final: pos=(%.3f, %.3f) vel=(%.3f, %.3f)\n",
			final.Position.X(), final.Position.Y(), final.Velocity.X(), final.Velocity.Y())
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(result.Heights(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("height"),
	))

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	f, err := tea.LogToFile(logFile, "ballsim")
	if err != nil {
		return err
	}
	defer f.Close()
	log := logging.New(f, verbose)

	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}
	consts, err := cfg.Constants()
	if err != nil {
		return err
	}
	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator, consts)
	if err != nil {
		return err
	}

	m := viz.NewModel(integ, cfg.InitialBody(), cfg.Window, frameRate, log)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tFRAMES\tSUBSTEPS\tGRAVITY\tDAMP\tBOUNCES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2f\t%.2f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Frames,
			run.Substeps,
			run.Gravity,
			run.Dampening,
			run.Bounces,
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

	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrator: %s\n", meta.Integrator)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(s storage.Sample) float64
	}{
		{"x position", func(s storage.Sample) float64 { return s.Position.X() }},
		{"y position (height)", func(s storage.Sample) float64 { return s.Position.Y() }},
		{"mechanical energy", func(s storage.Sample) float64 {
			return metrics.MechanicalEnergy(dynamo.NewBody(s.Position, s.Velocity), meta.Gravity)
		}},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		))
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	axis := 1
	switch phaseAxis {
	case "x":
		axis = 0
	case "y":
	default:
		return fmt.Errorf("unknown axis: %s", phaseAxis)
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	result := storage.SamplesToResult(samples)

	report := analysis.AnalyzeBounces(result, meta.MinY)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("floor bounces: %d\n", report.FloorBounces)
	fmt.Printf("mean interval: %.4fs\n", report.MeanInterval)
	fmt.Printf("restitution: %.4f (dampening %.4f)\n", report.Restitution, meta.Dampening)
	if len(report.Apexes) > 0 {
		n := min(len(report.Apexes), 8)
		fmt.Printf("apexes: %.3f\n", report.Apexes[:n])
	}

	fmt.Printf("\nphase portrait (%s, v%s):\n", phaseAxis, phaseAxis)
	fmt.Print(analysis.NewPhasePortrait(result.Positions, result.Velocities, axis).ASCII(72, 20))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	positions := make([]mgl64.Vec2, len(samples))
	contacts := make([]dynamo.Contact, len(samples))
	for i, s := range samples {
		positions[i] = s.Position
		contacts[i] = s.Contact
	}

	// Stored runs carry the domain size, not the window; rebuild render
	// space at the default scale.
	window := config.DefaultConfig().Window
	scale := window.Scale()
	mapper := render.NewMapper(meta.SimHeight*scale, scale)

	style := export.DefaultStyle()
	style.Background = window.Background
	style.Ball = window.BallColor
	style.BallRadius = window.BallRadius

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.WriteTrajectorySVG(out, positions, contacts, mapper, meta.SimWidth*scale, meta.SimHeight*scale, style)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	names := args
	registry := experiment.NewRegistry()
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	fmt.Printf("comparing integrators (frames=%d, substeps=%d)\n\n", cfg.Frames, cfg.Physics.Substeps)
	fmt.Printf("%-12s  %-10s  %-10s  %-8s  %-12s  %-10s\n", "integrator", "final_x", "final_y", "bounces", "dissipation", "time_ms")
	fmt.Println(strings.Repeat("-", 72))

	var heights [][]float64
	for _, name := range names {
		run := cfg.Clone()
		run.Integrator = name

		exp := experiment.New(run, log)
		if err := exp.Setup(registry, sim.FixedClock(run.Physics.FixedDt)); err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final := result.Final()
		fmt.Printf("%-12s  %10.4f  %10.4f  %8d  %12.4f  %10.2f\n",
			name, final.Position.X(), final.Position.Y(), result.Bounces,
			result.Metrics["dissipation"], float64(elapsed.Microseconds())/1000)
		heights = append(heights, result.Heights())
	}

	if len(heights) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(heights,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("height: "+strings.Join(names, " / ")),
		))
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	variants, err := sweepVariants(cfg, sweepParam, sweepValues)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	newIntegrator, err := registry.Factory(cfg.Integrator)
	if err != nil {
		return err
	}

	ensemble := sim.NewEnsemble(newIntegrator, registry.DefaultMetrics, cfg.Mapper(), workers)

	runCfg := dynamo.DefaultConfig()
	runCfg.Frames = cfg.Frames

	log.V(1).Info("sweep started", "param", sweepParam, "variants", len(variants), "workers", workers)
	start := time.Now()
	results, err := ensemble.Run(context.Background(), variants, runCfg)
	if err != nil {
		return err
	}
	log.V(1).Info("sweep finished", "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBOUNCES\tENERGY\tDISSIPATION\tFINAL_Y\n", strings.ToUpper(sweepParam))
	for i, v := range variants {
		r := results[i]
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\n",
			v.Name, r.Bounces, r.Metrics["energy"], r.Metrics["dissipation"], r.Final().Position.Y())
	}
	return w.Flush()
}

// sweepVariants builds one variant per value, each a copy of cfg with the
// named parameter replaced.
func sweepVariants(cfg *config.Config, param, values string) ([]sim.Variant, error) {
	var variants []sim.Variant
	for _, raw := range strings.Split(values, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sweep value %q: %w", raw, err)
		}

		c := cfg.Clone()
		switch param {
		case "dampening":
			c.Physics.Dampening = v
		case "gravity":
			c.Physics.Gravity = v
		case "substeps":
			c.Physics.Substeps = int(v)
		default:
			return nil, fmt.Errorf("unknown sweep parameter: %s", param)
		}

		consts, err := c.Constants()
		if err != nil {
			return nil, fmt.Errorf("%s=%s: %w", param, raw, err)
		}
		variants = append(variants, sim.Variant{Name: raw, Constants: consts, Initial: c.InitialBody()})
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("no sweep values")
	}
	return variants, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	log := newLogger()
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Printf("  %s\n", scenario.Description)
	}

	results, runErr := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), log)

	st := storage.New(dataDir)
	if saveRuns {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tINTEG\tFRAMES\tBOUNCES\tENERGY\tRUN")
	for _, r := range results {
		runID := "-"
		if saveRuns {
			meta := storage.NewMetadata(r.Name, r.Config.Integrator, r.Constants)
			if runID, err = st.Save(meta, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%s\n",
			r.Name, r.Config.Integrator, r.Result.FramesRun, r.Result.Bounces, r.Result.Metrics["energy"], runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
		Workers:      workers,
	}

	start := time.Now()
	results, err := automation.RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}
	log.V(1).Info("monte carlo finished", "trials", trials, "elapsed", time.Since(start))

	contained, escaped := automation.MonteCarloStats(results)
	bounces := make([]float64, len(results))
	for i, r := range results {
		bounces[i] = float64(r.Bounces)
	}

	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("contained: %d\n", contained)
	fmt.Printf("escaped: %d\n\n", escaped)
	fmt.Println(asciigraph.Plot(bounces,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("bounces per trial"),
	))
	return nil
}
