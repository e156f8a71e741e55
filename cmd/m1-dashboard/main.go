package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

var AppVersion string

type application struct {
	viper  *viper.Viper
	config Config
	stdout io.Writer
	stderr io.Writer
}

func main() {
	app := &application{viper: viper.New(), stdout: os.Stdout, stderr: os.Stderr}
	if err := app.command().Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *application) command() *cobra.Command {
	root := &cobra.Command{
		Use:          "m1-dashboard",
		Short:        "Manage 5GMS provisioning sessions over M1",
		Version:      AppVersion,
		SilenceUsage: true,
		// Without a subcommand the dashboard server runs.
		RunE: app.runServe,
	}
	root.PersistentPreRunE = app.loadConfig

	flags := root.PersistentFlags()
	flags.String(flagConfig, "", "path to a configuration file (default ./application.yml)")
	flags.String(flagBackendURL, "", "base URL of the management backend")
	flags.String(flagLogLevel, "", "log level: ERROR, WARNING, INFO or DEBUG")

	root.AddCommand(
		app.serveCommand(),
		app.sessionsCommand(),
		app.statusCommand(),
		hashPasswordCommand(),
	)
	return root
}

func (app *application) loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[annotationNoConfig] == "true" {
		return nil
	}

	config, err := loadConfig(app.viper, cmd.Flags())
	if err != nil {
		return err
	}
	app.config = config

	// Command output goes to stdout, so only the server logs there.
	logOut := app.stderr
	if cmd.Name() == "serve" || cmd == cmd.Root() {
		logOut = app.stdout
	}
	initLogger(config.Log.Level, logOut)

	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		printConfig(config)
	}
	return nil
}

func (app *application) newClient() (*af.Client, error) {
	httpClient, err := af.NewHTTPClient(app.config.Backend)
	if err != nil {
		return nil, fmt.Errorf("backend transport: %w", err)
	}
	client, err := af.NewClient(app.config.Backend.URL, httpClient)
	if err != nil {
		return nil, err
	}
	slog.Debug("Backend client ready", "url", client.BaseURL())
	return client, nil
}
