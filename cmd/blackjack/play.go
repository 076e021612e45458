package main

import (
	"os"

	"github.com/aretw0/blackjack/internal/cli"
	"github.com/aretw0/blackjack/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [table-id]",
	Short: "Sit at a table and drive it interactively",
	Long: `Opens the table (creating it when missing) and reads commands from stdin:
register, begin, end, reset, status, history, graph, quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableID := "default"
		if len(args) > 0 {
			tableID = args[0]
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		opts := cli.PlayOptions{
			TableID: tableID,
			Manager: a.manager(),
			In:      os.Stdin,
			Out:     os.Stdout,
		}
		if cli.IsTerminal(os.Stdin) {
			tui.PrintBanner(os.Stdout)
			opts.Render = tui.NewRenderer()
		}
		return cli.HandleExecutionError(cli.RunPlay(sigCtx, opts))
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
