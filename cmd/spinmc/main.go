package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"spinmc/internal/analysis"
	"spinmc/internal/config"
	"spinmc/internal/experiment"
	"spinmc/internal/mc"
	"spinmc/internal/scan"
	"spinmc/internal/storage"
	"spinmc/internal/viz"
)

var (
	dataDir       string
	mode          string
	seed          int64
	sweeps        int
	equilSweeps   int
	interval      int
	temperature   float64
	latticePreset string
	tracePath     string
	snapshotPath  string
	configFile    string
	preset        string
	// Temperature scan range
	tMin   float64
	tMax   float64
	tSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spinmc",
		Short: "Monte Carlo simulation of Ising and Heisenberg spin lattices",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinmc", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&tracePath, "trace", "", "stream estimator samples to this csv file")
	runCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "write the final spin state to this csv file")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "scan a temperature range in parallel",
		RunE:  runScan,
	}
	addRunFlags(scanCmd)
	scanCmd.Flags().Float64Var(&tMin, "tmin", 0.5, "lowest temperature")
	scanCmd.Flags().Float64Var(&tMax, "tmax", 4.0, "highest temperature")
	scanCmd.Flags().IntVar(&tSteps, "steps", 15, "number of temperatures")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored estimator traces",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "autocorrelation diagnostic of a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets for a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for mode: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("\nlattice presets:")
			for _, p := range config.ListLatticePresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, scanCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mode, "mode", "ising", "spin model: ising or heisenberg")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&sweeps, "sweeps", config.DefaultSweeps, "total sweeps")
	cmd.Flags().IntVar(&equilSweeps, "equilibration", config.DefaultEquilibrationSweeps, "equilibration sweeps")
	cmd.Flags().IntVar(&interval, "interval", config.DefaultSampleInterval, "sweeps between samples")
	cmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "temperature in reduced units")
	cmd.Flags().StringVar(&latticePreset, "lattice", "square_ferro", "lattice preset")
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(mode, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(mode))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and config file values.
	if cmd.Flags().Changed("mode") || cfg.Mode == "" {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("sweeps") {
		cfg.Sweeps = sweeps
	}
	if cmd.Flags().Changed("equilibration") {
		cfg.EquilibrationSweeps = equilSweeps
	}
	if cmd.Flags().Changed("interval") {
		cfg.SampleInterval = interval
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = temperature
	}
	if cmd.Flags().Changed("lattice") {
		cfg.Lattice = config.LatticeConfig{Preset: latticePreset}
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("trace") {
		cfg.TraceFilepath = tracePath
	}
	if cmd.Flags().Changed("snapshot") {
		cfg.SnapshotFilepath = snapshotPath
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	var recorder *storage.TraceRecorder
	if cfg.TraceFilepath != "" {
		recorder, err = storage.NewTraceRecorder(cfg.TraceFilepath)
		if err != nil {
			return err
		}
		exp.AddObserver(recorder)
	}

	numSites := exp.Tables().NumSites
	fmt.Printf("running %s simulation on %d sites at T=%.3f...\n", cfg.Mode, numSites, cfg.Temperature)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			return err
		}
	}
	if cfg.SnapshotFilepath != "" {
		if err := storage.WriteSnapshot(cfg.SnapshotFilepath, result.FinalState); err != nil {
			return err
		}
	}

	runID, err := st.Save(cfg.Mode, cfg.MCConfig(), numSites, result)
	if err != nil {
		return err
	}

	n := float64(numSites)
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Trace))
	fmt.Println("\nestimators:")
	fmt.Printf("  energy:          %.6f (%.6f per site)\n", result.Estimators.Energy, result.Estimators.Energy/n)
	fmt.Printf("  magnetization:   %.6f (%.6f per site)\n", result.Estimators.Magnetization, result.Estimators.Magnetization/n)
	for s, v := range result.Estimators.SpinVector {
		fmt.Printf("  sublattice %d:    (%.4f, %.4f, %.4f)\n", s, v[0], v[1], v[2])
	}
	fmt.Printf("  acceptance rate: %.4f\n", result.AcceptanceRate())

	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tables, err := cfg.Lattice.BuildTables()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetModel(cfg.Mode, tables); err != nil {
		return err
	}
	build := func() mc.Model {
		mdl, _ := registry.GetModel(cfg.Mode, tables)
		return mdl
	}

	temps := scan.Temperatures(tMin, tMax, tSteps)
	fmt.Printf("scanning %d temperatures in [%.3f, %.3f] (%s, %d sites)...\n",
		len(temps), tMin, tMax, cfg.Mode, tables.NumSites)
	start := time.Now()

	points, err := scan.Run(context.Background(), build, cfg.MCConfig(), temps)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tE/N\t|M|/N\tC\tCHI\tBINDER\tACCEPT")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			p.Temperature, p.Energy, p.Magnetization, p.SpecificHeat, p.Susceptibility, p.Binder, p.AcceptanceRate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mags := make([]float64, len(points))
	for i, p := range points {
		mags[i] = p.Magnetization
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(mags,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("|m| per site vs temperature index"),
	))

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	m := viz.NewModel(cfg.Mode, exp.Tables().NumSites, cfg.Sweeps,
		func(ctx context.Context, obs mc.Observer) (*mc.Result, error) {
			exp.AddObserver(obs)
			return exp.Run(ctx)
		})

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := final.(viz.Model); ok {
		if result, runErr := fm.Result(); runErr != nil {
			return runErr
		} else if result != nil {
			fmt.Printf("final energy: %.6f, magnetization: %.6f\n",
				result.Estimators.Energy, result.Estimators.Magnetization)
		}
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
	fmt.Fprintln(w, "ID\tMODE\tTIME\tSITES\tT\tSWEEPS\tSAMPLES\tE\t|M|")

	for _, run := range runs {
		m := run.Magnetization
		if m < 0 {
			m = -m
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%d\t%d\t%.3f\t%.3f\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NumSites,
			run.Temperature,
			run.Sweeps,
			run.Samples,
			run.Energy,
			m,
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

	header, rows, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", len(rows))

	n := float64(meta.NumSites)
	for col := 1; col < len(header) && col <= 2; col++ {
		data := make([]float64, len(rows))
		for i := range rows {
			if col < len(rows[i]) {
				data[i] = rows[i][col] / n
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(header[col]+" per site"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, rows, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("autocorrelation analysis: %s\n", meta.ID)
	fmt.Printf("mode: %s\n\n", meta.Mode)

	mags := make([]float64, len(rows))
	for i := range rows {
		if len(rows[i]) > 2 {
			mags[i] = rows[i][2]
		}
	}

	acf := analysis.Autocorrelation(mags, len(mags)/4)
	graph := asciigraph.Plot(acf,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("magnetization autocorrelation"),
	)
	fmt.Println(graph)
	fmt.Println()

	tau := analysis.IntegratedTime(acf)
	fmt.Printf("integrated autocorrelation time: %.3f sweeps\n", tau*float64(meta.SampleInterval))
	fmt.Printf("suggested sample interval: %d\n", int(tau*float64(meta.SampleInterval))+1)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	header, rows, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for j, val := range row {
			record[j] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

type exportData struct {
	Meta   storage.RunMetadata `json:"meta"`
	Header []string            `json:"header"`
	Rows   [][]float64         `json:"rows"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	header, rows, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{Meta: *meta, Header: header, Rows: rows})
}
