package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/uyouii/peak-asymmetry/asymmetry"
	"github.com/uyouii/peak-asymmetry/config"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/render"
	"github.com/uyouii/peak-asymmetry/report"
	"github.com/uyouii/peak-asymmetry/server"
	"github.com/uyouii/peak-asymmetry/spectrumio"
	"github.com/uyouii/peak-asymmetry/synth"
	"github.com/uyouii/peak-asymmetry/utils"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(os.Args[2:], os.Stdout)
	case "synth":
		err = runSynth(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: asymmetry <command> [flags]

commands:
  analyze   compute peak asymmetry factors for one or more spectrum files
  synth     write a synthetic Gaussian spectrum
  serve     run the HTTP API`)
}

// loadConfig reads the config file and installs the configured logger.
func loadConfig(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func runAnalyze(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config file")
	prominence := fs.Float64("prominence", 0, "minimum peak prominence (overrides config)")
	relHeight := fs.Float64("rel-height", 0, "relative height in (0,1] (overrides config)")
	depth := fs.Float64("depth", 0, "measure width at this fraction of the prominence above the base, i.e. rel-height = 1 - depth")
	format := fs.String("format", "", "report format: json, yaml or table (overrides config)")
	chart := fs.String("chart", "", "write an HTML chart to this path (single input only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("analyze needs at least one spectrum file")
	}

	cfg, logger, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// -rel-height wins over -depth when both are given.
	opts := cfg.AnalysisOptions()
	if set["prominence"] {
		opts.MinProminence = *prominence
	}
	if set["depth"] {
		opts.RelativeHeight = 1 - *depth
	}
	if set["rel-height"] {
		opts.RelativeHeight = *relHeight
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *chart != "" {
		cfg.Output.Chart = *chart
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	spectra := make([]*model.Spectrum, 0, fs.NArg())
	for _, path := range fs.Args() {
		s, err := spectrumio.ReadFile(path, cfg.Input.Columns)
		if err != nil {
			return err
		}
		spectra = append(spectra, s)
	}

	ctx := utils.WithLogger(context.Background(), logger)
	results, err := asymmetry.AnalyzeBatch(ctx, spectra, opts, cfg.Analysis.Workers)
	if err != nil {
		return err
	}

	for i, result := range results {
		if err := report.New(spectra[i].Name, opts, result).Write(stdout, cfg.Output.Format); err != nil {
			return err
		}
	}

	if cfg.Output.Chart != "" {
		if len(spectra) != 1 {
			return fmt.Errorf("-chart needs exactly one input, got %d", len(spectra))
		}
		f, err := os.Create(cfg.Output.Chart)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render.Chart(f, spectra[0], results[0], ""); err != nil {
			return err
		}
		logger.Info("chart written", zap.String("path", cfg.Output.Chart))
	}
	return nil
}

func runSynth(args []string) error {
	fs := flag.NewFlagSet("synth", flag.ContinueOnError)
	kind := fs.String("kind", "asymmetric", "preset: symmetric or asymmetric")
	out := fs.String("out", "", "output path (.parquet for parquet, text otherwise); stdout when empty")
	noise := fs.Float64("noise", 0, "standard deviation of added Gaussian noise")
	seed := fs.Uint64("seed", 1, "noise seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spectrum, err := synth.Preset(*kind)
	if err != nil {
		return err
	}
	if *noise > 0 {
		spectrum = synth.AddNoise(spectrum, *noise, *seed)
	}
	if *out == "" {
		return spectrumio.WriteText(os.Stdout, spectrum)
	}
	if err := spectrumio.WriteFile(*out, spectrum); err != nil {
		return err
	}
	zap.L().Info("data has been saved", zap.String("path", *out), zap.Int("samples", spectrum.Len()))
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, logger).Run(ctx)
}
