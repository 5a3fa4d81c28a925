// Package cli содержит команды административной утилиты bmsctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/user"
)

// Backend операции, доступные из командной строки.
type Backend interface {
	Migrate() (version uint, err error)
	Promote(ctx context.Context, email string) error
	Reconcile(ctx context.Context) (models.ReconcileResult, error)
	Close() error
}

// Opener открывает Backend перед выполнением команды.
type Opener func(ctx context.Context) (Backend, error)

// NewRootCmd собирает корневую команду bmsctl.
func NewRootCmd(open Opener, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bmsctl",
		Short:         "BMS administration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(
		migrateCmd(open),
		promoteCmd(open),
		reconcileCmd(open),
	)
	return rootCmd
}

func migrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(b Backend) error {
				version, err := b.Migrate()
				if err != nil {
					return fmt.Errorf("failed to apply migrations: %w", err)
				}
				cmd.Printf("schema is at version %d\n", version)
				return nil
			})
		},
	}
}

func promoteCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return errors.New("email is empty")
			}
			return withBackend(cmd, open, func(b Backend) error {
				err := b.Promote(cmd.Context(), email)
				if errors.Is(err, user.ErrNotFound) {
					return fmt.Errorf("user %s is not registered", email)
				}
				if err != nil {
					return fmt.Errorf("failed to promote %s: %w", email, err)
				}
				cmd.Printf("%s is now admin\n", email)
				return nil
			})
		},
	}
}

func reconcileCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one tenancy reconciliation pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(b Backend) error {
				result, err := b.Reconcile(cmd.Context())
				if err != nil {
					return fmt.Errorf("reconcile failed: %w", err)
				}
				cmd.Printf("apartments rented: %d\n", result.ApartmentsRented)
				cmd.Printf("apartments released: %d\n", result.ApartmentsReleased)
				cmd.Printf("users promoted: %d\n", result.UsersPromoted)
				cmd.Printf("users demoted: %d\n", result.UsersDemoted)
				return nil
			})
		},
	}
}

func withBackend(cmd *cobra.Command, open Opener, fn func(Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	b, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()
	return fn(b)
}
