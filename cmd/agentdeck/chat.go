package main

import (
	"github.com/aretw0/agentdeck/internal/presentation/tui"
	"github.com/aretw0/agentdeck/pkg/runner"
	"github.com/aretw0/agentdeck/pkg/session"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <agent-id>",
	Short: "Chat with an agent",
	Long: `Opens an interactive conversation with an agent. Type /quit or press Ctrl+D to leave.
Replies are rendered as markdown when the output is a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		console, err := newConsole()
		if err != nil {
			return err
		}
		chat, err := console.OpenChat(cmd.Context(), args[0], session.WithLogger(logger))
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		noRender, _ := cmd.Flags().GetBool("no-render")

		var handler runner.IOHandler
		if asJSON {
			handler = runner.NewJSONHandler(cmd.InOrStdin(), cmd.OutOrStdout())
		} else {
			var opts []runner.TextHandlerOption
			if !noRender && runner.IsTerminal(cmd.OutOrStdout()) {
				render, err := tui.NewRenderer("", 0)
				if err != nil {
					return err
				}
				opts = append(opts, runner.WithTextHandlerRenderer(render))
			}
			handler = runner.NewTextHandler(cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
		}

		return runner.NewRunner(chat,
			runner.WithLogger(logger),
			runner.WithInputHandler(handler),
		).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("json", false, "Read and write JSON lines instead of text")
	chatCmd.Flags().Bool("no-render", false, "Print replies as plain text")
}
