package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stephenplusplus/gcloud-datastore-schema/internal/logging"
	"github.com/stephenplusplus/gcloud-datastore-schema/internal/loader"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
)

// errViolations signals that violations were already reported; only the exit code remains.
var errViolations = errors.New("schema violations found")

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel       string
	schemaPath     string
	allArrayErrors bool
}

func (g *globalFlags) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func (g *globalFlags) schemas() (*loader.SchemaFile, error) {
	if g.schemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	return loader.LoadSchemas(g.schemaPath)
}

func (g *globalFlags) arrayReport() schema.ArrayReport {
	if g.allArrayErrors {
		return schema.ReportAll
	}
	return schema.ReportFirst
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "dsschema",
		Short:         "Validate datastore entities against per-kind schemas",
		Long:          `dsschema checks entities against the schema registered for their kind and refuses to save anything that does not conform.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.schemaPath, "schema", "", "Schema file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&g.allArrayErrors, "all-array-errors", false, "Report every failing array element instead of the first")

	rootCmd.AddCommand(
		newValidateCmd(g),
		newSaveCmd(g),
		newInspectCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
