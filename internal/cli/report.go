package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage contamination reports",
	Long:  "Submit, list and inspect water contamination reports",
}

var reportSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new contamination report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		problem, _ := cmd.Flags().GetString("problem")
		sourceType, _ := cmd.Flags().GetString("source")
		severityHint, _ := cmd.Flags().GetString("severity")
		pinCode, _ := cmd.Flags().GetString("pin")
		localityName, _ := cmd.Flags().GetString("locality")
		district, _ := cmd.Flags().GetString("district")

		req := primary.SubmitReportRequest{
			Problem:      problem,
			SourceType:   sourceType,
			SeverityHint: severityHint,
			PinCode:      pinCode,
			LocalityName: localityName,
			District:     district,
		}
		if cmd.Flags().Changed("lat") {
			lat, _ := cmd.Flags().GetFloat64("lat")
			req.Lat = &lat
		}
		if cmd.Flags().Changed("lon") {
			lon, _ := cmd.Flags().GetFloat64("lon")
			req.Lon = &lon
		}

		report, err := wire.ReportService().SubmitReport(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to submit report: %w", err)
		}

		fmt.Printf("✓ Report submitted: %s\n", report.ID)
		fmt.Printf("  Locality: %s %s (%s)\n", report.PinCode, report.LocalityName, report.District)
		fmt.Printf("  Status: %s\n", report.Status)
		return nil
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		district, _ := cmd.Flags().GetString("district")

		reports, err := wire.ReportService().ListActiveReports(ctx, district)
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}

		if len(reports) == 0 {
			fmt.Println("No active reports found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPIN\tDISTRICT\tSOURCE\tSEVERITY\tSTATUS\tVOTES\tSUBMITTED")
		fmt.Fprintln(w, "--\t---\t--------\t------\t--------\t------\t-----\t---------")
		for _, item := range reports {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				item.ID,
				item.PinCode,
				item.District,
				item.SourceType,
				item.SeverityHint,
				item.Status,
				item.Upvotes,
				item.SubmittedAt,
			)
		}
		w.Flush()
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Show report details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		report, err := wire.ReportService().GetReport(ctx, args[0])
		if err != nil {
			return fmt.Errorf("report not found: %w", err)
		}

		fmt.Printf("Report: %s\n", report.ID)
		fmt.Printf("Problem: %s\n", report.Problem)
		fmt.Printf("Source: %s\n", report.SourceType)
		fmt.Printf("Severity: %s\n", report.SeverityHint)
		fmt.Printf("Locality: %s %s (%s)\n", report.PinCode, report.LocalityName, report.District)
		if report.Lat != nil && report.Lon != nil {
			fmt.Printf("Coordinates: %.4f, %.4f\n", *report.Lat, *report.Lon)
		}
		fmt.Printf("Status: %s\n", report.Status)
		fmt.Printf("Submitted By: %s\n", report.SubmitterRole)
		fmt.Printf("Upvotes: %d\n", report.Upvotes)
		fmt.Printf("Submitted: %s\n", report.SubmittedAt)
		return nil
	},
}

var reportUpvoteCmd = &cobra.Command{
	Use:   "upvote [report-id]",
	Short: "Upvote a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		upvotes, err := wire.ReportService().UpvoteReport(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to upvote report: %w", err)
		}

		fmt.Printf("✓ Report %s now has %d upvote(s)\n", args[0], upvotes)
		return nil
	},
}

var reportSMSCmd = &cobra.Command{
	Use:   "sms",
	Short: "Render the canonical SMS text for an offline report",
	RunE: func(cmd *cobra.Command, args []string) error {
		problem, _ := cmd.Flags().GetString("problem")
		pinCode, _ := cmd.Flags().GetString("pin")
		severityHint, _ := cmd.Flags().GetString("severity")
		sourceType, _ := cmd.Flags().GetString("source")

		text, err := wire.ReportService().FormatSMS(primary.SMSRequest{
			Problem:      problem,
			PinCode:      pinCode,
			SeverityHint: severityHint,
			SourceType:   sourceType,
		})
		if err != nil {
			return fmt.Errorf("failed to format SMS: %w", err)
		}

		fmt.Println(text)
		return nil
	},
}

func init() {
	reportSubmitCmd.Flags().StringP("problem", "p", "", "Problem description (required)")
	reportSubmitCmd.Flags().String("source", "", "Water source type, e.g. river, pond, tube_well (required)")
	reportSubmitCmd.Flags().String("severity", "", "Reporter severity hint: low, medium, high or critical (required)")
	reportSubmitCmd.Flags().String("pin", "", "Postal PIN code (required)")
	reportSubmitCmd.Flags().String("locality", "", "Free-text locality name")
	reportSubmitCmd.Flags().StringP("district", "d", "", "District (required)")
	reportSubmitCmd.Flags().Float64("lat", 0, "Latitude of the contamination site")
	reportSubmitCmd.Flags().Float64("lon", 0, "Longitude of the contamination site")

	reportListCmd.Flags().StringP("district", "d", "", "Filter by district")

	reportSMSCmd.Flags().StringP("problem", "p", "", "Problem description (required)")
	reportSMSCmd.Flags().String("pin", "", "Postal PIN code (required)")
	reportSMSCmd.Flags().String("severity", "", "Severity hint (required)")
	reportSMSCmd.Flags().String("source", "", "Water source type (required)")

	reportCmd.AddCommand(reportSubmitCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportUpvoteCmd)
	reportCmd.AddCommand(reportSMSCmd)
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	return reportCmd
}
