package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-recruitment-crm/config"
	"go-recruitment-crm/pkg/database"
	"go-recruitment-crm/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	timeout time.Duration
)

// rootCmd is the operator CLI for the CRM database.
var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Recruitment CRM operations tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		logger.Init(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withDB opens the pool for the duration of fn.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if cfg.DBUrl == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	return fn(ctx, pool)
}
