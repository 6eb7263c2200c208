// Command pharmacyctl runs operator tasks against the pharmacy database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/pharmacare/libs/auth"
	"github.com/md-rashed-zaman/pharmacare/libs/config"
	"github.com/md-rashed-zaman/pharmacare/libs/db"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/storage"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pharmacyctl",
		Short:         "Operator tasks for the pharmacy service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(createSuperuserCmd())
	rootCmd.AddCommand(addBranchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openPool(ctx context.Context) (*db.Pool, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	return db.Open(ctx, dbURL, db.Options{MaxConns: 2})
}

func createSuperuserCmd() *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create a user who can open the admin dashboard",
		Long:  "Create a superuser. The password is read from PHARMACYCTL_PASSWORD so it stays out of shell history.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv("PHARMACYCTL_PASSWORD")
			if password == "" {
				return errors.New("PHARMACYCTL_PASSWORD is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user := model.User{
				ID:           uuid.NewString(),
				Username:     username,
				Email:        email,
				PasswordHash: hash,
				IsSuperuser:  true,
			}
			if err := storage.NewUserRepository(pool).Create(ctx, &user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created superuser %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name for the admin sign-in page")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func addBranchCmd() *cobra.Command {
	var (
		b        model.Branch
		lat, lng float64
	)
	cmd := &cobra.Command{
		Use:   "add-branch",
		Short: "Add a branch to the branch finder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("lat") {
				b.Latitude = &lat
			}
			if cmd.Flags().Changed("lng") {
				b.Longitude = &lng
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := storage.NewBranchRepository(pool).Create(ctx, &b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created branch %d (%s)\n", b.ID, b.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&b.Name, "name", "", "branch name")
	cmd.Flags().StringVar(&b.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&b.Phone, "phone", "", "contact number")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
