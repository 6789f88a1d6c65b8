package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/simforge/sim/repository"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "simforge",
	Short: "Convert process diagrams into validated discrete-event simulation models",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRepository opens the Badger element store in dir, or an in-memory
// repository when dir is empty. The returned close func is never nil.
func openRepository(dir string) (repository.Repository, func(), error) {
	if dir == "" {
		return repository.NewMemoryRepository(), func() {}, nil
	}
	repo, err := repository.OpenBadger(dir)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logrus.Warnf("closing element store: %v", err)
		}
	}, nil
}

// writeYAML marshals v as YAML to w.
func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("YAML marshal failed: %w", err)
	}
	return enc.Close()
}

// init sets up persistent flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
