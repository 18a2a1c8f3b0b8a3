package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/waterwatch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize waterwatch configuration",
	Long:  "Write .waterwatch/config.json in the current directory with the actor role and district",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		district, _ := cmd.Flags().GetString("district")

		if !config.ValidRole(role) {
			return fmt.Errorf("--role must be one of: citizen, phc, lab")
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		cfg := &config.Config{
			Version:  "1",
			Role:     role,
			District: district,
		}
		if err := config.SaveConfig(cwd, cfg); err != nil {
			return err
		}

		fmt.Printf("✓ Initialized waterwatch config (role: %s)\n", role)
		if district != "" {
			fmt.Printf("  District: %s\n", district)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringP("role", "r", "citizen", "Actor role: citizen, phc or lab")
	initCmd.Flags().StringP("district", "d", "", "Home district for scoped commands")
}

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return initCmd
}
