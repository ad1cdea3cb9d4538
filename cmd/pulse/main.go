package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulse/internal/config"
	"github.com/san-kum/pulse/internal/export"
	"github.com/san-kum/pulse/internal/gui"
	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/raster"
	"github.com/san-kum/pulse/internal/session"
	"github.com/san-kum/pulse/internal/storage"
	"github.com/san-kum/pulse/internal/tui"
	"github.com/san-kum/pulse/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	fps        int
	theme      string
	verbose    bool
	// Headless recording
	duration     time.Duration
	interactions []time.Duration
	width        int
	height       int
	gifStride    int
	noGIF        bool
	runs         int
	// Export
	outPath string
	series  bool
	// Config
	writePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "one becomes billions: an interactive particle multiplier",
		RunE:  runTerminal,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pulse", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "terminal theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "record a headless session",
		Args:  cobra.NoArgs,
		RunE:  runRecord,
	}
	runCmd.Flags().DurationVar(&duration, "time", 6*time.Second, "recording length")
	runCmd.Flags().DurationSliceVar(&interactions, "interact", []time.Duration{0}, "offsets at which to tap")
	runCmd.Flags().IntVar(&width, "width", 0, "surface width (0 uses config)")
	runCmd.Flags().IntVar(&height, "height", 0, "surface height (0 uses config)")
	runCmd.Flags().IntVar(&gifStride, "gif-stride", 3, "keep every nth frame in the GIF")
	runCmd.Flags().BoolVar(&noGIF, "no-gif", false, "skip the GIF recording")
	runCmd.Flags().IntVar(&runs, "runs", 1, "record this many runs in parallel with consecutive seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot population over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples and particles to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final frame (or the population curve) to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&series, "series", false, "plot population instead of particles")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the effect in a native window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	guiCmd.Flags().IntVar(&width, "width", 0, "window width (0 uses twice the config size)")
	guiCmd.Flags().IntVar(&height, "height", 0, "window height")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config as yaml",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}
	configCmd.Flags().StringVar(&writePath, "write", "", "also save it to this path")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportSVGCmd, presetsCmd, guiCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("width") && width > 0 {
		cfg.Width = width
	}
	if flags.Changed("height") && height > 0 {
		cfg.Height = height
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	if preset != "" {
		return preset
	}
	if configFile != "" {
		return strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}
	return "default"
}

func runTerminal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ec, err := cfg.Effect()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	// The terminal belongs to bubbletea, so logs go to a file.
	log, err := newLogger(filepath.Join(dataDir, "pulse.log"))
	if err != nil {
		return err
	}
	defer log.Sync()

	return tui.Run(tui.Options{
		Effect: ec,
		FPS:    cfg.FPS,
		Theme:  cfg.Theme,
		Seed:   cfg.Seed,
		Logger: log,
	})
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ec, err := cfg.Effect()
	if err != nil {
		return err
	}

	log, err := newLogger("stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	return gui.Run(gui.Options{
		Effect: ec,
		Width:  width,
		Height: height,
		FPS:    cfg.FPS,
		Seed:   cfg.Seed,
		Logger: log,
	})
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ec, err := cfg.Effect()
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	log, err := newLogger("stderr")
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := session.Options{
		Effect:       ec,
		Width:        cfg.Width,
		Height:       cfg.Height,
		FPS:          cfg.FPS,
		Duration:     duration,
		Seed:         cfg.Seed,
		Interactions: interactions,
		Logger:       log,
	}
	if !noGIF {
		// GIF delays are in hundredths of a second.
		delay := int(time.Duration(gifStride) * cfg.FrameInterval() / (10 * time.Millisecond))
		opts.Recorder = raster.NewRecorder(gifStride, delay)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if runs > 1 {
		return recordEnsemble(ctx, st, opts, log)
	}

	fmt.Printf("recording %v at %dfps...\n", duration, cfg.FPS)
	start := time.Now()

	res, err := session.Run(ctx, opts)
	if err != nil && res == nil {
		return err
	}
	if err != nil {
		log.Warn("saving partial recording", zap.Error(err))
	}
	elapsed := time.Since(start)

	runID, err := st.Save(presetName(), opts, res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", res.Frames)
	fmt.Printf("final phase: %s\n", res.Phase)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.0f\n", name, res.Metrics[name])
	}
	return nil
}

func recordEnsemble(ctx context.Context, st *storage.Store, opts session.Options, log *zap.Logger) error {
	fmt.Printf("recording %d runs of %v...\n", runs, duration)
	start := time.Now()

	results, err := session.Ensemble(ctx, opts, runs, opts.Seed)
	if err != nil {
		return err
	}
	log.Info("ensemble finished", zap.Int("runs", runs), zap.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tPHASE\tPEAK\tBILLIONS_AT")
	for i, res := range results {
		o := opts
		o.Seed = opts.Seed + int64(i)
		o.Recorder = nil
		runID, err := st.Save(presetName(), o, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.0f\t%.0fms\n",
			runID, o.Seed, res.Phase,
			res.Metrics[session.MetricPeakPopulation],
			res.Metrics[session.MetricBillionsAtMs],
		)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tFRAMES\tPHASE\tPEAK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\t%s\t%.0f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			float64(run.DurationMs)/1000,
			run.Frames,
			run.FinalPhase,
			run.Metrics[session.MetricPeakPopulation],
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

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n", len(samples))
	if frame := st.FramePath(runID); fileExists(frame) {
		fmt.Printf("last frame: %s\n", frame)
	}
	fmt.Println()

	graph := asciigraph.Plot(session.Populations(samples),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("population vs frame"),
	)
	fmt.Println(graph)
	fmt.Println()

	last := multiplier.Phase(-1)
	for _, s := range samples {
		if s.Phase != last {
			fmt.Printf("  %6dms  %s\n", s.TimeMs, s.Phase)
			last = s.Phase
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, exportData(meta, nil, nil))
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	if err := export.ExportJSON(outPath, exportData(meta, samples, particles)); err != nil {
		return err
	}
	if outPath != "-" {
		fmt.Printf("wrote %s\n", outPath)
	}
	return nil
}

func exportData(meta *storage.RunMetadata, samples []session.Sample, particles []multiplier.Particle) *export.ExportData {
	data := export.NewExportData(samples, particles)
	data.ID = meta.ID
	data.Preset = meta.Preset
	data.Seed = meta.Seed
	data.FPS = meta.FPS
	data.Width = meta.Width
	data.Height = meta.Height
	data.FinalPhase = meta.FinalPhase
	data.Steps = meta.Frames
	data.Metrics = meta.Metrics
	return data
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if series {
		samples, err := st.LoadSamples(runID)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(session.Populations(samples), 800, 300, "#22d3ee")
		if svg == "" {
			return fmt.Errorf("not enough samples to plot")
		}
	} else {
		particles, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		sc := export.Scene{
			Width:      meta.Width,
			Height:     meta.Height,
			Background: raster.Background,
			Particles:  particles,
			Connector:  multiplier.DefaultConnectorColor,
		}
		if phase, ok := multiplier.ParsePhase(meta.FinalPhase); ok && phase != multiplier.PhaseOne {
			center := multiplier.Vec2{X: float64(meta.Width) / 2, Y: float64(meta.Height) / 2}
			sc.Connectors = multiplier.Connectors(nil, particles, center, meta.ConnectorRadius)
		}
		svg = export.SceneToSVG(sc)
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))

	if writePath != "" {
		if err := config.Save(writePath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", writePath)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
