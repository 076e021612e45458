package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/blackjack"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blackjack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blackjack version %s\n", strings.TrimSpace(blackjack.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
