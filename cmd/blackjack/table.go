package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/blackjack/internal/presentation/tui"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Create tables and apply single operations to them",
}

var tableNewCmd = &cobra.Command{
	Use:   "new <table-id>",
	Short: "Create a table in the starting phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		eng, err := a.manager().Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created table '%s' (%s)\n", args[0], eng.Snapshot())
		return nil
	},
}

var tableStatusCmd = &cobra.Command{
	Use:   "status <table-id>",
	Short: "Show a table's current snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		eng, err := a.manager().Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		md := tui.StatusMarkdown(args[0], eng.Snapshot(), eng.Depth())
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
		fmt.Print(md)
		fmt.Print(tui.Seats(eng.Snapshot()))
		return nil
	},
}

// operationCmd builds the subcommand that applies op to a stored table.
func operationCmd(use string, op domain.Operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <table-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.manager().Apply(cmd.Context(), args[0], op)
			if errors.Is(err, domain.ErrInvalidTransition) {
				return fmt.Errorf("rejected: %w", err)
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], res.After)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableNewCmd)
	tableCmd.AddCommand(tableStatusCmd)
	tableCmd.AddCommand(operationCmd("register", domain.OpRegisterPlayer, "Seat a new player (starting only)"))
	tableCmd.AddCommand(operationCmd("begin", domain.OpBeginPlay, "Start the round (starting only)"))
	tableCmd.AddCommand(operationCmd("end", domain.OpEndPlay, "Finish the round (playing only)"))
	tableCmd.AddCommand(operationCmd("reset", domain.OpResetGame, "Return to starting, keeping players (done only)"))
}
