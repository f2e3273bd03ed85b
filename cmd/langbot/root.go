package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-txcache/pkg/config"
	"github.com/goliatone/go-txcache/pkg/di"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/spf13/cobra"
)

// RootCmd builds the command tree.
func RootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "langbot",
		Short:         "Language preference bot backend",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before the environment")

	root.AddCommand(
		serveCmd(&envFile),
		migrateCmd(&envFile),
	)
	return root
}

// bootstrap loads the configuration, initializes logging and builds the container.
func bootstrap(ctx context.Context, envFile string) (context.Context, *config.Config, *di.Container, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return ctx, nil, nil, err
	}
	logger.Init(cfg.LoggerConfig())
	ctx = logger.ContextWithLogger(ctx, logger.GetDefault())

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return ctx, nil, nil, err
	}
	return ctx, cfg, c, nil
}

func serveCmd(envFile *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			ctx, cfg, c, err := bootstrap(ctx, *envFile)
			if err != nil {
				return err
			}
			defer c.Close()

			if migrate {
				if err := c.Migrate(ctx); err != nil {
					return err
				}
			}
			return c.Server(cfg.ServerConfig()).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the schema before serving")
	return cmd
}

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, c, err := bootstrap(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Migrate(ctx); err != nil {
				return err
			}
			logger.FromContext(ctx).Info("Schema ready")
			return nil
		},
	}
}
