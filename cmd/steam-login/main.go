package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SecorD0/steamweb/lib/configutil"
	"github.com/SecorD0/steamweb/lib/steamauth"
	"github.com/SecorD0/steamweb/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	// Proxy in "[http://][login:password@]host:port" form
	Proxy string `json:"proxy"`
	// Language is the Steam_Language cookie value
	Language string `json:"language"`
	// TimeoutSeconds bounds every request to the login endpoints
	TimeoutSeconds int `json:"timeout_seconds"`
}

var flags struct {
	config string
	mobile bool
	debug  bool
}

var rootCmd = &cobra.Command{
	Use:   "steam-login",
	Short: "Log into a Steam account interactively and print the resulting session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(flags.debug)

		tel, err := telemetry.SetupFromEnv(cmd.Context(), "steam-login")
		if err != nil {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}
		defer func() {
			if err := tel.Shutdown(cmd.Context()); err != nil {
				slog.Error("failed to shutdown telemetry", "err", err)
			}
		}()
		telemetry.InstrumentPerfStats(cmd.Context())

		config, err := configutil.ReadConfig[Config](flags.config)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}

		flavor := steamauth.Web
		if flags.mobile {
			flavor = steamauth.Mobile
		}
		client, err := steamauth.NewClient(steamauth.Options{
			Flavor:   flavor,
			Proxy:    config.Proxy,
			Language: config.Language,
			Timeout:  time.Second * time.Duration(config.TimeoutSeconds),
		})
		if err != nil {
			return err
		}

		prompter := steamauth.NewConsolePrompter(os.Stdin, os.Stdout)
		session, err := steamauth.PromptLogin(cmd.Context(), client, prompter)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendRow(table.Row{"steam64", session.SteamID.Steam64})
		t.AppendRow(table.Row{"account id", session.SteamID.AccountID})
		t.AppendRow(table.Row{"profile", session.SteamID.ProfileURL()})
		t.AppendRow(table.Row{"session id", session.SessionID})
		if session.OAuthToken != "" {
			t.AppendRow(table.Row{"oauth token", session.OAuthToken})
		}
		t.Render()

		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&flags.config, "config", "config.json5", "path to a config file")
	rootCmd.Flags().BoolVar(&flags.mobile, "mobile", false, "authenticate a mobile-style session with an oauth token")
	rootCmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
