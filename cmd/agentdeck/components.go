package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Show the models, tools and options the backend offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		console, err := newConsole()
		if err != nil {
			return err
		}
		cat := console.Components(cmd.Context())
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Models:")
		for _, m := range cat.Models {
			fmt.Fprintf(out, "  %s\n", m)
		}
		fmt.Fprintln(out, "Tools:")
		for _, t := range cat.Tools {
			fmt.Fprintf(out, "  %-16s %s\n", t.ID, t.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(componentsCmd)
}
