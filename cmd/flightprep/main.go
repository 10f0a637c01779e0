package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruslano69/flightprep/pkg/runner"

	// DB adapter registrations — подключить достаточно, остальное уже написано
	_ "github.com/ruslano69/flightprep/pkg/adapters/postgres"
	_ "github.com/ruslano69/flightprep/pkg/adapters/sqlite"
)

func main() {
	configFile := flag.String("config", "", "path to run config YAML (required)")
	seed := flag.Int64("seed", 0, "random seed for the train/test split, overrides config value")
	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: flightprep --config <name>.yaml [--seed 42]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fmt.Fprintln(os.Stderr, "  --config  path to YAML run config file (required)")
		fmt.Fprintln(os.Stderr, "  --seed    random seed for the split, overrides config")
		os.Exit(1)
	}

	cfg, err := runner.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if isFlagSet("seed") {
		if cfg.Params == nil {
			params, err := cfg.LoadParams()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading params: %v\n", err)
				os.Exit(1)
			}
			cfg.Params = params
			cfg.ParamsFile = ""
		}
		cfg.Params.Seed = seed
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *runner.RunConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := runner.New(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	stats, err := r.Execute(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Pipeline %q finished in %v\n", cfg.Name, stats.Duration.Round(time.Millisecond))
	fmt.Printf("  rows loaded:  %d\n", stats.RowsLoaded)
	fmt.Printf("  rows cleaned: %d\n", stats.RowsCleaned)
	fmt.Printf("  train rows:   %d\n", stats.RowsTrain)
	fmt.Printf("  test rows:    %d\n", stats.RowsTest)
	for name, sum := range stats.Checksums {
		fmt.Printf("  %-8s xxh3=%s\n", name, sum)
	}
	return nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
