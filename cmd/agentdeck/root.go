package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/agentdeck"
	"github.com/aretw0/agentdeck/internal/config"
	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/client"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "agentdeck",
	Short: "agentdeck builds, inspects and chats with AI agents",
	Long: `agentdeck is a console for conversational AI agents.
It compiles node-graph workflows into agent definitions, talks to the agent backend,
and can run a reference backend for local development.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("api") {
			loaded.APIURL, _ = cmd.Flags().GetString("api")
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(logging.ParseLevel(cfg.LogLevel), logging.WithFormat(cfg.LogFormat))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Agent backend base URL (default $AGENTDECK_API_URL or http://127.0.0.1:8000)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// newConsole builds a console for the configured backend.
func newConsole() (*agentdeck.Console, error) {
	return agentdeck.New(cfg.APIURL,
		agentdeck.WithLogger(logger),
		agentdeck.WithClientOptions(client.WithTimeout(cfg.RequestTimeout)),
	)
}
