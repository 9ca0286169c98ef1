package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tourhub/internal/config"
	"tourhub/internal/logger"
	"tourhub/internal/middleware"
	"tourhub/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "tourhub",
		Short:         "Travel coordination service for touring groups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $CONFIG_FILE)")

	cmd.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		importMembersCmd(&configPath),
		tokenCmd(&configPath),
	)
	return cmd
}

// bootstrap loads configuration and sets up logging. The returned writer is
// shared with the HTTP request logger.
func bootstrap(configPath string) (*config.Config, io.Writer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	out, err := logger.Setup(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, nil, fmt.Errorf("set up logging: %w", err)
	}
	return cfg, out, nil
}

func openStore(cfg *config.Config) (*store.Store, *gorm.DB, error) {
	db, err := config.InitDB(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, nil, err
	}
	return store.New(db), db, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Warn("Closing database failed.")
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			_, db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			logrus.Info("Database schema is up to date.")
			return nil
		},
	}
}

func tokenCmd(configPath *string) *cobra.Command {
	var userID, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token signed with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			switch role {
			case middleware.RoleViewer, middleware.RoleManager, middleware.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			token, err := middleware.NewAuth(cfg.JWT.Secret, cfg.JWT.TTL).GenerateToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id to embed in the token")
	cmd.Flags().StringVar(&role, "role", middleware.RoleViewer, "Role: viewer, manager or admin")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
