// Command kraken-std inspects and edits Cargo manifests, reads cargo
// metadata, and keeps project housekeeping files in shape.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rbyshko/kraken-std/internal/config"
)

// version is set at build time.
var version = "dev"

var (
	cfg    *config.Config
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "kraken-std"})

	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kraken-std",
	Short: "Cargo manifest and workspace tooling",
	Long: `kraken-std reads and edits Cargo.toml manifests without disturbing the
fields it does not understand, lists workspace members and build artifacts
from cargo metadata, and keeps .gitignore housekeeping in shape.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"override the configured log level (debug, info, warn, error)")
	rootCmd.AddCommand(manifestCmd, metadataCmd, checkCmd, gitignoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
