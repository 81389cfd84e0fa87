package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coach-booking-api/internal/auth"
	"coach-booking-api/internal/model"
	"coach-booking-api/internal/store"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin users",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user allowed to run migrations",
	Long: `Create an admin user. The password comes from --password or, when the
flag is empty, from COACHCTL_ADMIN_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: runAdminCreate,
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
	adminRole     string
)

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Login email (required)")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Password, at least 8 characters")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", model.UserRoleAdmin, "admin or coach")
	_ = adminCreateCmd.MarkFlagRequired("email")
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	pw := adminPassword
	if pw == "" {
		pw = os.Getenv("COACHCTL_ADMIN_PASSWORD")
	}
	if len(pw) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if adminRole != model.UserRoleAdmin && adminRole != model.UserRoleCoach {
		return fmt.Errorf("role must be admin or coach")
	}

	ctx := cmd.Context()
	cfg, docs, err := open(ctx)
	if err != nil {
		return err
	}
	defer docs.Close()

	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}
	u := &model.User{Email: adminEmail, Name: adminName, PasswordHash: hash, Role: adminRole}
	if err := store.New(docs, cfg.Collections).CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return nil
}
