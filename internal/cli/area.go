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

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Geospatial queries",
	Long:  "Answer area safety questions against the live incident set",
}

var areaStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether an area is near active contamination",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		query, err := areaQueryFromFlags(cmd)
		if err != nil {
			return err
		}

		status, err := wire.ProximityService().AreaStatus(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to check area status: %w", err)
		}

		switch status.Status {
		case primary.AreaContaminated:
			color.Red("CONTAMINATED")
		case primary.AreaClean:
			color.Green("CLEAN")
		default:
			fmt.Println(status.Status)
		}

		if status.Nearest != nil {
			fmt.Printf("Nearest group: %s %s (%s)\n", status.Nearest.PinCode, status.Nearest.LocalityName, status.Nearest.District)
			fmt.Printf("Distance: %.2f km\n", status.Nearest.DistanceKm)
			fmt.Printf("Severity: %s\n", status.Nearest.SeverityTier)
		}
		return nil
	},
}

var areaNearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List geotagged reports near a coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		query, err := areaQueryFromFlags(cmd)
		if err != nil {
			return err
		}

		nearby, err := wire.ProximityService().NearbyReports(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list nearby reports: %w", err)
		}

		if len(nearby) == 0 {
			fmt.Println("No reports within range.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DISTANCE\tID\tPIN\tPROBLEM\tSEVERITY\tSTATUS")
		fmt.Fprintln(w, "--------\t--\t---\t-------\t--------\t------")
		for _, n := range nearby {
			fmt.Fprintf(w, "%.2f km\t%s\t%s\t%s\t%s\t%s\n",
				n.DistanceKm,
				n.Report.ID,
				n.Report.PinCode,
				n.Report.Problem,
				n.Report.SeverityHint,
				n.Report.Status,
			)
		}
		w.Flush()
		return nil
	},
}

var areaHotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "List geotagged report points for map rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		district, _ := cmd.Flags().GetString("district")

		hotspots, err := wire.ProximityService().Hotspots(ctx, district)
		if err != nil {
			return fmt.Errorf("failed to list hotspots: %w", err)
		}

		if len(hotspots) == 0 {
			fmt.Println("No geotagged reports found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLAT\tLON\tLOCALITY\tSEVERITY\tSTATUS")
		fmt.Fprintln(w, "--\t---\t---\t--------\t--------\t------")
		for _, h := range hotspots {
			fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%s\t%s\t%s\n",
				h.ReportID,
				h.Lat,
				h.Lon,
				h.LocalityName,
				h.SeverityHint,
				h.Status,
			)
		}
		w.Flush()
		return nil
	},
}

func areaQueryFromFlags(cmd *cobra.Command) (primary.AreaQuery, error) {
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
		return primary.AreaQuery{}, fmt.Errorf("--lat and --lon are required")
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	radius, _ := cmd.Flags().GetFloat64("radius")

	return primary.AreaQuery{Lat: lat, Lon: lon, RadiusKm: radius}, nil
}

func init() {
	for _, c := range []*cobra.Command{areaStatusCmd, areaNearbyCmd} {
		c.Flags().Float64("lat", 0, "Latitude of the query point (required)")
		c.Flags().Float64("lon", 0, "Longitude of the query point (required)")
		c.Flags().Float64("radius", 0, "Search radius in km (0 = operation default)")
	}
	areaHotspotsCmd.Flags().StringP("district", "d", "", "Filter by district")

	areaCmd.AddCommand(areaStatusCmd)
	areaCmd.AddCommand(areaNearbyCmd)
	areaCmd.AddCommand(areaHotspotsCmd)
}

// AreaCmd returns the area command
func AreaCmd() *cobra.Command {
	return areaCmd
}
