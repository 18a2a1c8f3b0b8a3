package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/cli"
	"github.com/example/waterwatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "waterwatch",
		Short:   "waterwatch - water contamination report lifecycle engine",
		Version: version.String(),
		Long: `waterwatch tracks citizen reports of water contamination, groups them by
locality, escalates clusters to testing labs and walks each escalation
through testing, remediation and two-phase clean confirmation.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor()
		},
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.GroupCmd())
	rootCmd.AddCommand(cli.EscalationCmd())
	rootCmd.AddCommand(cli.AreaCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.LogCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
