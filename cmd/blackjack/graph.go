package main

import (
	"fmt"

	"github.com/aretw0/blackjack/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <table-id>",
	Short: "Export a table's history tree",
	Long:  `Outputs a Mermaid diagram (graph TD) of every snapshot the table has passed through, with the current timeline highlighted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		root, err := a.backend.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Print(graph.GenerateMermaid(root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
