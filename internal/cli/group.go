package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/wire"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Inspect locality groups",
	Long:  "List locality groups derived from active reports, with severity tiers and escalation eligibility",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locality groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		district, _ := cmd.Flags().GetString("district")
		eligibleOnly, _ := cmd.Flags().GetBool("eligible")

		groups, err := wire.ReportService().ListGroups(ctx, primary.GroupFilters{
			District:     district,
			EligibleOnly: eligibleOnly,
		})
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
		}

		if len(groups) == 0 {
			fmt.Println("No locality groups found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PIN\tDISTRICT\tLOCALITY\tREPORTS\tTIER\tELIGIBLE")
		fmt.Fprintln(w, "---\t--------\t--------\t-------\t----\t--------")
		for _, g := range groups {
			eligible := "no"
			if g.Eligible {
				eligible = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				g.PinCode,
				g.District,
				g.LocalityName,
				g.Count,
				tierColor(g.SeverityTier),
				eligible,
			)
		}
		w.Flush()
		return nil
	},
}

// tierColor renders a severity tier with the conventional alert color.
func tierColor(tier string) string {
	switch tier {
	case "severe":
		return color.RedString(tier)
	case "medium":
		return color.YellowString(tier)
	case "mild":
		return color.CyanString(tier)
	default:
		return tier
	}
}

func init() {
	groupListCmd.Flags().StringP("district", "d", "", "Filter by district")
	groupListCmd.Flags().BoolP("eligible", "e", false, "Only groups eligible for escalation")

	groupCmd.AddCommand(groupListCmd)
}

// GroupCmd returns the group command
func GroupCmd() *cobra.Command {
	return groupCmd
}
