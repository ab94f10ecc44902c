package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/repository/postgres"
	"go-recruitment-crm/pkg/auth"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var adminOpts struct {
	email     string
	password  string
	firstName string
	lastName  string
}

// createAdminCmd bootstraps the first administrator. Without --password the
// password is read from CRM_ADMIN_PASSWORD, which keeps it out of shell history.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account.

The password comes from --password or, when the flag is omitted, from the
CRM_ADMIN_PASSWORD environment variable.`,
	RunE: runCreateAdmin,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash of a password (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := ""
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminOpts.email, "email", "", "Admin email (required)")
	createAdminCmd.Flags().StringVar(&adminOpts.password, "password", "", "Admin password (defaults to $CRM_ADMIN_PASSWORD)")
	createAdminCmd.Flags().StringVar(&adminOpts.firstName, "first-name", "System", "First name")
	createAdminCmd.Flags().StringVar(&adminOpts.lastName, "last-name", "Administrator", "Last name")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	password := adminOpts.password
	if password == "" {
		password = os.Getenv("CRM_ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("pass --password or set CRM_ADMIN_PASSWORD")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(adminOpts.email))

	return withDB(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
		users := postgres.NewUserRepository(pool)
		if _, err := users.GetByEmail(ctx, email); err == nil {
			return fmt.Errorf("user %s already exists", email)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		user := &domain.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    adminOpts.firstName,
			LastName:     adminOpts.lastName,
			Role:         domain.RoleAdmin,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", user.Email, user.ID)
		return nil
	})
}
