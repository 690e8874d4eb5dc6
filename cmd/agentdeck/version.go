package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/agentdeck"
	"github.com/aretw0/agentdeck/internal/presentation/tui"
	"github.com/aretw0/agentdeck/pkg/runner"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agentdeck",
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimSpace(agentdeck.Version)
		if runner.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "agentdeck version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
