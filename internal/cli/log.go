package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/ports/secondary"
	"github.com/example/waterwatch/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect the audit trail",
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		entityType, _ := cmd.Flags().GetString("type")
		entityID, _ := cmd.Flags().GetString("id")

		entries, err := wire.AuditLogRepository().List(ctx, secondary.AuditLogFilters{
			EntityType: entityType,
			EntityID:   entityID,
		})
		if err != nil {
			return fmt.Errorf("failed to list audit entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No audit entries found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tACTOR\tENTITY\tACTION\tDETAIL\tWHEN")
		fmt.Fprintln(w, "--\t-----\t------\t------\t------\t----")
		for _, e := range entries {
			actor := e.ActorRole
			if actor == "" {
				actor = "-"
			}
			detail := ""
			if e.Action == "transition" {
				detail = e.OldValue + " -> " + e.NewValue
			} else if e.FieldName != "" {
				detail = e.FieldName
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
				e.ID,
				actor,
				e.EntityType,
				e.EntityID,
				e.Action,
				detail,
				e.CreatedAt,
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	logListCmd.Flags().StringP("type", "t", "", "Filter by entity type (report|assignment)")
	logListCmd.Flags().String("id", "", "Filter by entity ID")

	logCmd.AddCommand(logListCmd)
}

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	return logCmd
}
