package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stubforce/stubforce/internal/config"
	"github.com/stubforce/stubforce/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			applyServerFlags(cmd.Flags(), rt.cfg)

			srv := server.New(server.Config{
				Host:       rt.cfg.Server.Host,
				Port:       rt.cfg.Server.Port,
				APIVersion: rt.cfg.Server.APIVersion,
			}, rt.svc, rt.logger)

			if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("host", "", "listen address (overrides config)")
	cmd.Flags().Int("port", 0, "listen port (overrides config)")
	return cmd
}

// applyServerFlags gives explicitly set flags precedence over the config
// file and environment.
func applyServerFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
}
