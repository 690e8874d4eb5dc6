package main

import (
	"fmt"
	"os"

	"github.com/aretw0/agentdeck/internal/presentation/graph"
	"github.com/aretw0/agentdeck/internal/validator"
	"github.com/aretw0/agentdeck/pkg/compiler"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/dsl"
	"github.com/aretw0/agentdeck/pkg/registry"
	"github.com/spf13/cobra"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Compile, visualize and save workflow scripts",
	Long: `Workflow scripts describe a node graph in YAML or JSON:

  name: Research Agent
  nodes:
    - ref: research
      kind: llm
      config: {prompt: "Find facts about {input}"}
      next: [review]
    - ref: review
      kind: hitl`,
}

var workflowCompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the workflow definition of a script",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, err := buildScript(cmd)
		if err != nil {
			return err
		}
		data, err := compiler.Marshal(res.Graph)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var workflowGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, err := buildScript(cmd)
		if err != nil {
			return err
		}
		def := compiler.Compile(res.Graph)
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(&def, nil))
		return nil
	},
}

var workflowSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create an agent from a script",
	RunE: func(cmd *cobra.Command, args []string) error {
		script, res, err := buildScript(cmd)
		if err != nil {
			return err
		}
		name := script.Name
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}

		console, err := newConsole()
		if err != nil {
			return err
		}
		agent, err := console.SaveWorkflow(cmd.Context(), name, res.Graph)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created agent %s (%s)\n", agent.ID, agent.Name)
		return nil
	},
}

var workflowValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a workflow for broken links and unreachable nodes",
	Long: `Validates a workflow script, or with --definition a compiled workflow definition
(the "workflow" object of an agent), and reports every problem found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		isDefinition, _ := cmd.Flags().GetBool("definition")

		var def *domain.WorkflowDefinition
		if isDefinition {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if def, err = compiler.Decode(data); err != nil {
				return err
			}
		} else {
			_, res, err := buildScript(cmd)
			if err != nil {
				return err
			}
			compiled := compiler.Compile(res.Graph)
			def = &compiled
		}

		if err := validator.ValidateWorkflow(def, registry.Default); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workflow is valid (%d nodes, %d edges)\n", len(def.Nodes), len(def.Edges))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workflowCmd)
	workflowCmd.AddCommand(workflowCompileCmd, workflowGraphCmd, workflowSaveCmd, workflowValidateCmd)

	workflowCmd.PersistentFlags().StringP("file", "f", "", "Workflow script (YAML or JSON)")
	_ = workflowCmd.MarkPersistentFlagRequired("file")
	workflowSaveCmd.Flags().String("name", "", "Agent name (default: the script name)")
	workflowValidateCmd.Flags().Bool("definition", false, "The file is a compiled workflow definition, not a script")
}

func buildScript(cmd *cobra.Command) (*dsl.Script, *dsl.Result, error) {
	path, _ := cmd.Flags().GetString("file")
	script, err := dsl.LoadScript(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := script.Build(dsl.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	for _, ref := range res.Skipped {
		logger.Warn("node skipped: unknown kind", "ref", ref)
	}
	return script, res, nil
}
