package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/blackjack/pkg/history"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored tables",
	Long:  `List, inspect, and remove tables kept in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ids, err := a.backend.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing tables: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("No tables found.")
			return nil
		}
		fmt.Println("Tables:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <table-id>",
	Short: "Print the full stored history tree of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		root, err := a.backend.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading table '%s': %w", args[0], err)
		}
		data, err := history.Marshal(root)
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return err
		}
		fmt.Println(out.String())
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <table-id>...",
	Short: "Remove one or more tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		mgr := a.manager()
		var failed int
		for _, id := range args {
			if err := mgr.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Printf("Removed table '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d table(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
