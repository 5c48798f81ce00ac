package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"newsdesk/db"
	"newsdesk/internal/config"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"

	"github.com/spf13/cobra"
)

var (
	flagName      string
	flagEmail     string
	flagUserID    int64
	flagTokenName string
)

var rootCmd = &cobra.Command{
	Use:          "admin",
	Short:        "Manage API users and tokens",
	SilenceUsage: true,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users *repository.UserRepository) error {
			user := model.User{Name: flagName, Email: flagEmail}
			if err := users.CreateUser(ctx, &user); err != nil {
				return err
			}

			fmt.Printf("created user %d (%s)\n", user.ID, user.Email)
			return nil
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue an API token; the plaintext is shown only once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users *repository.UserRepository) error {
			user, err := users.GetUserByID(ctx, flagUserID)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("user %d not found", flagUserID)
			}

			plaintext, token, err := users.CreateToken(ctx, user.ID, flagTokenName)
			if err != nil {
				return err
			}

			fmt.Printf("token %d for %s:\n%s\n", token.ID, user.Email, plaintext)
			return nil
		})
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&flagName, "name", "", "user name")
	userCreateCmd.Flags().StringVar(&flagEmail, "email", "", "user email")
	userCreateCmd.MarkFlagRequired("name")
	userCreateCmd.MarkFlagRequired("email")

	tokenCreateCmd.Flags().Int64Var(&flagUserID, "user-id", 0, "owner of the token")
	tokenCreateCmd.Flags().StringVar(&flagTokenName, "name", "default", "token label")
	tokenCreateCmd.MarkFlagRequired("user-id")

	userCmd.AddCommand(userCreateCmd)
	tokenCmd.AddCommand(tokenCreateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func withUsers(ctx context.Context, fn func(context.Context, *repository.UserRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := db.Connect(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("error connecting to DB: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx, db.DB, slog.Default()); err != nil {
		return fmt.Errorf("error migrating DB: %w", err)
	}

	return fn(ctx, repository.NewUserRepository(db.DB))
}
