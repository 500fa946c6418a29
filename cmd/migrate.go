package cmd

import (
	"os"

	"blog-server/config"
	"blog-server/db"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  migrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

// migrate only needs the database, so it skips the full config validation.
func migrate(cmd *cobra.Command, args []string) error {
	if err := connectDb(); err != nil {
		return err
	}
	defer db.Close()

	if err := db.MigrationsUp(); err != nil {
		return errors.Wrap(err, "error running migrations")
	}

	color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, "✅ Database is up to date")
	return nil
}

func connectDb() error {
	return db.Connect(config.LoadDatabaseUrl())
}
