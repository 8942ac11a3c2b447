package main

import (
	"context"
	"fmt"
	"os"

	"agenda/internal/config"
	"agenda/internal/logging"
	"agenda/internal/migrate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Contacts manager API",
	Long: `agenda serves the contacts REST API used by the web client.

Configuration comes from environment variables (optionally a .env file) and
an optional YAML file named by CONFIG_FILE.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	// Running without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply or inspect database migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Storage != config.StoragePostgres {
			return fmt.Errorf("migrations need STORAGE=%s", config.StoragePostgres)
		}
		runner, err := migrate.Open(cfg.DB.DSN(), logger)
		if err != nil {
			return err
		}
		defer runner.Close()

		ctx := cmd.Context()
		switch args[0] {
		case "up":
			return runner.Up(ctx)
		case "down":
			return runner.Down(ctx)
		case "status":
			return runner.Status(ctx)
		default:
			return fmt.Errorf("unknown migrate action %q", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
