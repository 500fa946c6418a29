package cmd

import (
	"context"
	"os"

	"blog-server/auth"
	"blog-server/db"

	"github.com/fatih/color"
	"github.com/go-extras/cobraflags"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	emailFlag = "email"
	roleFlag  = "role"
)

var promoteFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email of the account to change (required)",
	},
	roleFlag: &cobraflags.StringFlag{
		Name:  roleFlag,
		Value: db.RoleAdmin,
		Usage: "Role to grant (admin or user)",
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant a registered user the admin role, or take it away",
	RunE:  promote,
}

func init() {
	cobraflags.RegisterMap(promoteCmd, promoteFlags)
	RootCmd.AddCommand(promoteCmd)
}

func promote(cmd *cobra.Command, args []string) error {
	email := auth.NormalizeEmail(promoteFlags[emailFlag].GetString())
	if email == "" {
		return errors.New("--email is required")
	}

	role := promoteFlags[roleFlag].GetString()
	if role != db.RoleAdmin && role != db.RoleUser {
		return errors.Errorf("unknown role %q, expected %s or %s", role, db.RoleAdmin, db.RoleUser)
	}

	if err := connectDb(); err != nil {
		return err
	}
	defer db.Close()

	if err := db.MigrationsUp(); err != nil {
		return errors.Wrap(err, "error running migrations")
	}

	if err := db.SetUserRole(context.Background(), email, role); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return errors.Errorf("no user registered with email %s", email)
		}
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintf(os.Stdout, "✅ %s now has the %s role\n", email, role)
	return nil
}
