package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/adapters/httpapi"
	"github.com/example/waterwatch/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Local .env is optional; the environment wins either way.
		_ = godotenv.Load()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = os.Getenv("WATERWATCH_ADDR")
		}
		if addr == "" {
			addr = ":8080"
		}

		engine := httpapi.NewEngine(wire.HTTPHandlers())

		fmt.Printf("waterwatch listening on %s\n", addr)
		return engine.Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (default $WATERWATCH_ADDR or :8080)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
