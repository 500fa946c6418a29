package cmd

import (
	"blog-server/setup"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and serve the blog",
	RunE:  serve,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setup.MustInitDb(cfg)
	setup.InitServices(cfg)

	return setup.StartServer(cfg, mux.NewRouter())
}
