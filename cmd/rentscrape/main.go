package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"rentscrape/internal/config"
	"rentscrape/internal/registry"
	"rentscrape/internal/report"
	"rentscrape/internal/scrape/util"
)

const defaultConfigPath = "config/config.yml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var listOnly bool
	flag.BoolVar(&listOnly, "buildings", false, "print configured building names and exit")
	flag.BoolVar(&listOnly, "b", false, "shorthand for -buildings")
	var (
		minBeds  = flag.Int("min-beds", -1, "minimum number of beds (unset when negative)")
		maxBeds  = flag.Int("max-beds", -1, "maximum number of beds (unset when negative)")
		csvMode  = flag.Bool("csv", false, "emit CSV rows instead of the text report (omits per-size summaries)")
		outPath  = flag.String("out", "", "append CSV output to this file instead of stdout (implies -csv)")
		cfgPath  = flag.String("config", "", "YAML config path (default: $RENTSCRAPE_CONFIG, then config/config.yml, then built-in defaults)")
		parallel = flag.Bool("parallel", false, "fetch buildings concurrently; output order is unchanged")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	cfg, vres := config.NormalizeAndValidate(cfg)
	for _, w := range vres.Warnings {
		slog.Warn(w)
	}
	if !vres.OK() {
		return fmt.Errorf("invalid config: %s", strings.Join(vres.Errors, "; "))
	}

	client := util.NewClient(util.ClientOptions{
		UserAgent:      cfg.Scrape.UserAgent,
		Timeout:        time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second,
		RequestsPerSec: cfg.Scrape.RequestsPerSec,
		Burst:          cfg.Scrape.Burst,
	})
	reg, err := registry.New(cfg, client, slog.Default())
	if err != nil {
		return err
	}

	if listOnly {
		fmt.Println("# Buildings")
		for _, name := range reg.Names() {
			fmt.Println(name)
		}
		return nil
	}

	filter := report.Filter{}
	if *minBeds >= 0 {
		filter.MinBeds = minBeds
	}
	if *maxBeds >= 0 {
		filter.MaxBeds = maxBeds
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	var sink report.Sink
	switch {
	case *outPath != "":
		s, err := report.NewCSVFileSink(*outPath)
		if err != nil {
			return err
		}
		sink = s
	case *csvMode:
		sink = report.NewCSVSink(os.Stdout)
	default:
		sink = report.NewTextSink(os.Stdout)
	}

	runner := &report.Runner{
		Filter:      filter,
		Sink:        sink,
		Log:         slog.Default(),
		Parallel:    *parallel || cfg.Scrape.Parallel,
		MaxInFlight: cfg.Scrape.MaxInFlight,
	}
	return runner.Run(context.Background(), reg.Select(flag.Args()))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = os.Getenv("RENTSCRAPE_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
