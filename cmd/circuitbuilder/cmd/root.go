package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Leumas-Tech/CircuitBuilder/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	components string
)

var rootCmd = &cobra.Command{
	Use:   "circuitbuilder",
	Short: "Circuit graph editor backend and KiCad netlist exporter",
	Long: `CircuitBuilder stores breadboard-style circuit graphs, merges wiring
proposals into them, and exports KiCad netlists.

Examples:
  circuitbuilder serve                              # Start the HTTP API on :42389
  circuitbuilder export circuit.json -o blink.net   # Write a KiCad netlist
  circuitbuilder wire circuit.json wires.txt        # Add wires from a wire list
  circuitbuilder components                         # List the pin catalog
  circuitbuilder check blink.net                    # Validate a netlist file`,
	Version:      "0.3.0",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: $"+config.EnvConfigPath+" or ./"+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&components, "components", "",
		"component catalog directory (overrides config)")
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if verbose && path != "" {
		fmt.Printf("Using config: %s\n", path)
	}
	if components != "" {
		cfg.Paths.Components = components
	}
	return cfg, nil
}

// newLogger builds the zap logger for long running commands.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
