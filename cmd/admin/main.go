package main

import (
	"context"
	"fmt"
	"os"

	blapp "github.com/bizline/backoffice/internal/application/businessline"
	identityapp "github.com/bizline/backoffice/internal/application/identity"
	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/bizline/backoffice/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const adminPasswordEnv = "BACKOFFICE_ADMIN_PASSWORD"

func main() {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Backoffice bootstrap and maintenance commands",
		SilenceUsage: true,
	}

	var seedOpts seedOptions
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a business line and an administrator assigned to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedOpts.Password == "" {
				seedOpts.Password = os.Getenv(adminPasswordEnv)
			}
			if seedOpts.Password == "" {
				return fmt.Errorf("password required: use --password or %s", adminPasswordEnv)
			}
			return withAdmin(cmd.Context(), func(ctx context.Context, a *admin, log *zap.Logger) error {
				res, err := a.seed(ctx, seedOpts)
				if err != nil {
					return err
				}
				log.Info("Seed complete",
					zap.String("business_line_id", res.LineID.String()),
					zap.Bool("business_line_created", res.LineCreated),
					zap.String("user_id", res.UserID.String()),
					zap.Bool("user_created", res.UserCreated),
				)
				return nil
			})
		},
	}
	seedCmd.Flags().StringVar(&seedOpts.LineCode, "line-code", "MAIN", "Business line code")
	seedCmd.Flags().StringVar(&seedOpts.LineName, "line-name", "Main", "Business line name")
	seedCmd.Flags().StringVar(&seedOpts.Username, "username", "admin", "Administrator username")
	seedCmd.Flags().StringVar(&seedOpts.Password, "password", "", "Administrator password (default $"+adminPasswordEnv+")")

	var username, password string
	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), func(ctx context.Context, a *admin, log *zap.Logger) error {
				if err := a.resetPassword(ctx, username, password); err != nil {
					return err
				}
				log.Info("Password reset", zap.String("username", username))
				return nil
			})
		},
	}
	resetCmd.Flags().StringVar(&username, "username", "", "Username")
	resetCmd.Flags().StringVar(&password, "password", "", "New password")
	_ = resetCmd.MarkFlagRequired("username")
	_ = resetCmd.MarkFlagRequired("password")

	root.AddCommand(seedCmd, resetCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// withAdmin opens the database described by the configuration and runs fn
func withAdmin(ctx context.Context, fn func(context.Context, *admin, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	lineRepo := persistence.NewGormBusinessLineRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	a := &admin{
		lines:       lineRepo,
		users:       userRepo,
		lineService: blapp.NewBusinessLineService(lineRepo, db, nil, log),
		userService: identityapp.NewUserService(userRepo, lineRepo, db, nil, log),
	}
	return fn(ctx, a, log)
}
