// Package cli provides the stubforce command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stubforce/stubforce/internal/adapter"
	"github.com/stubforce/stubforce/internal/config"
	"github.com/stubforce/stubforce/internal/exec"
	"github.com/stubforce/stubforce/internal/seed"
	"github.com/stubforce/stubforce/internal/service"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stubforce",
		Short: "Stubforce - Mock CRM Query API",
		Long: `Stubforce serves a mock CRM REST API over a relational backing store.

Queries in a constrained SOQL dialect are compiled to parameterized SQL,
executed against sqlite, duckdb or postgres, and returned in the CRM's
wire format.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stubforce.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newQueryCmd(),
		newDescribeCmd(),
		newObjectsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// runtime bundles everything a command needs once the store is open.
type runtime struct {
	cfg     *config.Config
	adapter adapter.Adapter
	svc     *service.Service
	logger  *slog.Logger
}

// setup loads configuration, connects the adapter, seeds the store when
// configured to, and builds the service. The caller must call close.
func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger()

	a, err := adapter.New(cfg.AdapterConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, cfg.AdapterConfig()); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Target.Type, err)
	}

	if cfg.Target.Seed {
		if err := seed.Apply(ctx, a, logger); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	svc, err := service.New(ctx, a, exec.Options{
		Timeout: cfg.Query.Timeout,
		MaxRows: cfg.Query.MaxRows,
	}, cfg.Server.APIVersion, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, adapter: a, svc: svc, logger: logger}, nil
}

func (r *runtime) close() {
	_ = r.adapter.Close()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stubforce %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		},
	}
}
