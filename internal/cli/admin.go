package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kuisin/internal/config"
)

// NewAdminCmd groups admin account management.
func NewAdminCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminCreateCmd(configPath))
	return cmd
}

func newAdminCreateCmd(configPath *string) *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin who can log in and author quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := NewLogger(cfg)
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured; an in-memory admin would vanish on exit")
			}

			backend, err := NewBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			admin, err := backend.Services.Auth.CreateAdmin(cmd.Context(), email, name, password)
			if err != nil {
				return err
			}
			logger.Info("admin created", "id", admin.ID, "email", admin.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 6 characters")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
