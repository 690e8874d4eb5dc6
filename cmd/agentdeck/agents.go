package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/agentdeck"
	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List and create agents",
}

var agentsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the backend's agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		console, err := newConsole()
		if err != nil {
			return err
		}

		agents := console.Agents(cmd.Context())
		if len(agents) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No agents found. Create one to get started.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMODEL\tKIND")
		for _, a := range agents {
			kind := "manual"
			if a.IsWorkflow() {
				kind = fmt.Sprintf("workflow (%d nodes)", len(a.Workflow.Nodes))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Model, kind)
		}
		return w.Flush()
	},
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent from the manual builder fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		console, err := newConsole()
		if err != nil {
			return err
		}

		d := agentdeck.NewAgentDraft()
		d.Name, _ = cmd.Flags().GetString("name")
		d.Instructions, _ = cmd.Flags().GetString("instructions")
		if cmd.Flags().Changed("model") {
			d.Model, _ = cmd.Flags().GetString("model")
		}
		tools, _ := cmd.Flags().GetStringSlice("tool")
		for _, t := range tools {
			if t = strings.TrimSpace(t); t != "" && !d.HasTool(t) {
				d.ToggleTool(t)
			}
		}
		d.Memory, _ = cmd.Flags().GetBool("memory")
		d.Safety, _ = cmd.Flags().GetBool("safety")

		agent, err := console.CreateAgent(cmd.Context(), d)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created agent %s (%s)\n", agent.ID, agent.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.AddCommand(agentsListCmd, agentsCreateCmd)

	agentsCreateCmd.Flags().String("name", "", "Agent name")
	agentsCreateCmd.Flags().String("instructions", "", "System instructions")
	agentsCreateCmd.Flags().String("model", "", "Model id (see 'agentdeck components')")
	agentsCreateCmd.Flags().StringSlice("tool", nil, "Tool id to enable, repeatable")
	agentsCreateCmd.Flags().Bool("memory", false, "Enable long-term memory")
	agentsCreateCmd.Flags().Bool("safety", true, "Enable safety guardrails")
}
