package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/wire"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show derived statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		district, _ := cmd.Flags().GetString("district")

		stats, err := wire.StatsService().GetStatistics(ctx, district)
		if err != nil {
			return fmt.Errorf("failed to get statistics: %w", err)
		}

		if district != "" {
			fmt.Printf("Statistics for %s\n", district)
		} else {
			fmt.Println("Statistics (all districts)")
		}
		fmt.Printf("Total Reports: %d\n", stats.TotalReports)
		fmt.Printf("Active Reports: %d\n", stats.ActiveReports)
		fmt.Printf("Clean Areas: %d\n", stats.CleanAreas)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringP("district", "d", "", "Scope to a district")
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return statsCmd
}
