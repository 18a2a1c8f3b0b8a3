package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/wire"
)

var escalationCmd = &cobra.Command{
	Use:   "escalation",
	Short: "Manage lab escalations",
	Long:  "Escalate locality groups to a testing lab and walk assignments through the resolution workflow",
}

var escalationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Escalate an eligible locality group to the lab",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		pinCode, _ := cmd.Flags().GetString("pin")
		district, _ := cmd.Flags().GetString("district")
		description, _ := cmd.Flags().GetString("description")
		phcNotes, _ := cmd.Flags().GetString("notes")

		assignment, err := wire.EscalationService().Escalate(ctx, primary.EscalateRequest{
			PinCode:     pinCode,
			District:    district,
			Description: description,
			PHCNotes:    phcNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to escalate: %w", err)
		}

		fmt.Printf("✓ Escalated %s (%s) to the lab as %s\n", assignment.PinCode, assignment.District, assignment.ID)
		fmt.Printf("  Reports in snapshot: %d\n", assignment.ReportCount)
		fmt.Printf("  Status: %s\n", assignment.Status)
		return nil
	},
}

var escalationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		district, _ := cmd.Flags().GetString("district")
		status, _ := cmd.Flags().GetString("status")
		activeOnly, _ := cmd.Flags().GetBool("active")

		assignments, err := wire.EscalationService().ListAssignments(ctx, primary.AssignmentFilters{
			District:   district,
			Status:     status,
			ActiveOnly: activeOnly,
		})
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}

		if len(assignments) == 0 {
			fmt.Println("No assignments found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPIN\tDISTRICT\tREPORTS\tSTATUS\tCREATED")
		fmt.Fprintln(w, "--\t---\t--------\t-------\t------\t-------")
		for _, item := range assignments {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				item.ID,
				item.PinCode,
				item.District,
				item.ReportCount,
				item.Status,
				item.CreatedAt,
			)
		}
		w.Flush()
		return nil
	},
}

var escalationShowCmd = &cobra.Command{
	Use:   "show [assignment-id]",
	Short: "Show assignment details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		assignment, err := wire.EscalationService().GetAssignment(ctx, args[0])
		if err != nil {
			return fmt.Errorf("assignment not found: %w", err)
		}

		fmt.Printf("Assignment: %s\n", assignment.ID)
		fmt.Printf("Locality: %s %s (%s)\n", assignment.PinCode, assignment.LocalityName, assignment.District)
		fmt.Printf("Description: %s\n", assignment.Description)
		fmt.Printf("Status: %s\n", assignment.Status)
		fmt.Printf("Reports: %d\n", assignment.ReportCount)
		if assignment.PHCNotes != "" {
			fmt.Printf("PHC Notes: %s\n", assignment.PHCNotes)
		}
		if assignment.TestResultRef != "" {
			fmt.Printf("Test Result: %s\n", assignment.TestResultRef)
		}
		if assignment.LabNotes != "" {
			fmt.Printf("Lab Notes: %s\n", assignment.LabNotes)
		}
		if assignment.SolutionRef != "" {
			fmt.Printf("Solution: %s\n", assignment.SolutionRef)
		}
		if assignment.SolutionDescription != "" {
			fmt.Printf("Solution Description: %s\n", assignment.SolutionDescription)
		}
		if assignment.FinalNotes != "" {
			fmt.Printf("Final Notes: %s\n", assignment.FinalNotes)
		}
		fmt.Printf("Created: %s\n", assignment.CreatedAt)
		if assignment.ResolvedAt != "" {
			fmt.Printf("Resolved: %s\n", assignment.ResolvedAt)
		}
		return nil
	},
}

var escalationTestResultCmd = &cobra.Command{
	Use:   "test-result [assignment-id] [file]",
	Short: "Upload a lab test result and advance the assignment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		labNotes, _ := cmd.Flags().GetString("notes")

		contents, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read test result file: %w", err)
		}

		ref, err := wire.BlobStore().Put(ctx, filepath.Base(args[1]), contents)
		if err != nil {
			return fmt.Errorf("failed to store test result: %w", err)
		}

		assignment, err := wire.EscalationService().UploadTestResult(ctx, primary.UploadTestResultRequest{
			AssignmentID:  args[0],
			TestResultRef: ref,
			LabNotes:      labNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to upload test result: %w", err)
		}

		fmt.Printf("✓ Test result %s attached to %s\n", ref, assignment.ID)
		fmt.Printf("  Status: %s\n", assignment.Status)
		return nil
	},
}

var escalationSolutionCmd = &cobra.Command{
	Use:   "solution [assignment-id] [file]",
	Short: "Upload a remediation solution and advance the assignment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		description, _ := cmd.Flags().GetString("description")

		contents, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read solution file: %w", err)
		}

		ref, err := wire.BlobStore().Put(ctx, filepath.Base(args[1]), contents)
		if err != nil {
			return fmt.Errorf("failed to store solution: %w", err)
		}

		assignment, err := wire.EscalationService().UploadSolution(ctx, primary.UploadSolutionRequest{
			AssignmentID:        args[0],
			SolutionRef:         ref,
			SolutionDescription: description,
		})
		if err != nil {
			return fmt.Errorf("failed to upload solution: %w", err)
		}

		fmt.Printf("✓ Solution %s attached to %s\n", ref, assignment.ID)
		fmt.Printf("  Status: %s\n", assignment.Status)
		return nil
	},
}

var escalationPHCCleanCmd = &cobra.Command{
	Use:   "phc-clean [assignment-id]",
	Short: "Record the PHC's tentative clean verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		notes, _ := cmd.Flags().GetString("notes")

		assignment, err := wire.EscalationService().MarkCleanByPHC(ctx, primary.MarkCleanRequest{
			AssignmentID: args[0],
			PHCNotes:     notes,
		})
		if err != nil {
			return fmt.Errorf("failed to mark clean: %w", err)
		}

		fmt.Printf("✓ Assignment %s marked clean by PHC (awaiting lab approval)\n", assignment.ID)
		return nil
	},
}

var escalationConfirmCleanCmd = &cobra.Command{
	Use:   "confirm-clean [assignment-id]",
	Short: "Record the lab's final approval and resolve the locality",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		notes, _ := cmd.Flags().GetString("notes")

		assignment, err := wire.EscalationService().ConfirmClean(ctx, primary.ConfirmCleanRequest{
			AssignmentID: args[0],
			FinalNotes:   notes,
		})
		if err != nil {
			return fmt.Errorf("failed to confirm clean: %w", err)
		}

		fmt.Printf("✓ Assignment %s confirmed clean; %d report(s) resolved\n", assignment.ID, assignment.ReportCount)
		return nil
	},
}

var escalationSolutionsCmd = &cobra.Command{
	Use:   "solutions",
	Short: "List the archive of confirmed solutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		district, _ := cmd.Flags().GetString("district")

		solutions, err := wire.EscalationService().ListSolutions(ctx, district)
		if err != nil {
			return fmt.Errorf("failed to list solutions: %w", err)
		}

		if len(solutions) == 0 {
			fmt.Println("No confirmed solutions yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPIN\tDISTRICT\tSOLUTION\tRESOLVED")
		fmt.Fprintln(w, "--\t---\t--------\t--------\t--------")
		for _, item := range solutions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				item.ID,
				item.PinCode,
				item.District,
				item.SolutionRef,
				item.ResolvedAt,
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	escalationCreateCmd.Flags().String("pin", "", "Postal PIN code of the locality (required)")
	escalationCreateCmd.Flags().StringP("district", "d", "", "District of the locality (required)")
	escalationCreateCmd.Flags().String("description", "", "Summary sent to the lab (required)")
	escalationCreateCmd.Flags().String("notes", "", "Optional PHC notes")

	escalationListCmd.Flags().StringP("district", "d", "", "Filter by district")
	escalationListCmd.Flags().StringP("status", "s", "", "Filter by status")
	escalationListCmd.Flags().Bool("active", false, "Only unresolved assignments")

	escalationTestResultCmd.Flags().String("notes", "", "Optional lab notes")
	escalationSolutionCmd.Flags().String("description", "", "Solution description (required)")
	escalationPHCCleanCmd.Flags().String("notes", "", "Optional PHC notes")
	escalationConfirmCleanCmd.Flags().String("notes", "", "Optional final notes")
	escalationSolutionsCmd.Flags().StringP("district", "d", "", "Filter by district")

	escalationCmd.AddCommand(escalationCreateCmd)
	escalationCmd.AddCommand(escalationListCmd)
	escalationCmd.AddCommand(escalationShowCmd)
	escalationCmd.AddCommand(escalationTestResultCmd)
	escalationCmd.AddCommand(escalationSolutionCmd)
	escalationCmd.AddCommand(escalationPHCCleanCmd)
	escalationCmd.AddCommand(escalationConfirmCleanCmd)
	escalationCmd.AddCommand(escalationSolutionsCmd)
}

// EscalationCmd returns the escalation command
func EscalationCmd() *cobra.Command {
	return escalationCmd
}
