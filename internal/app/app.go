package app

import (
	"github.com/spf13/cobra"

	"github.com/xab-mack/solpipe/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "solpipe", Short: "Smart contract analysis pipeline orchestrator"}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cli.AddCommands(root)
	return root
}
