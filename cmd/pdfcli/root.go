package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pdfcatalog/internal/client"
	"pdfcatalog/internal/localstore"
)

// cli carries the resolved settings shared by every subcommand.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	app := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "pdfcli",
		Short:         "Browse and add PDFs in the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("server", "http://localhost:8080", "catalog API base URL")
	flags.String("upload-server", "http://localhost:3001", "upload helper base URL")
	flags.String("state-dir", defaultStateDir(), "directory holding recent views and the auth token")

	app.v.SetEnvPrefix("PDFCLI")
	app.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	app.v.AutomaticEnv()
	for _, name := range []string{"server", "upload-server", "state-dir"} {
		_ = app.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		app.yearsCmd(),
		app.listCmd(),
		app.openCmd(),
		app.recentCmd(),
		app.uploadCmd(),
		app.addCmd(),
	)
	return root
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pdfcli")
	}
	return ".pdfcli"
}

func (a *cli) apiClient() (*client.Client, error) {
	return client.New(a.v.GetString("server"), nil)
}

func (a *cli) uploadClient() (*client.Client, error) {
	return client.New(a.v.GetString("upload-server"), nil)
}

func (a *cli) store() localstore.Store {
	return localstore.NewFileStore(a.v.GetString("state-dir"))
}
