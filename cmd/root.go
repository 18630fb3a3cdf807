package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/rehabworks/rehab_backend/cmd/http"
	systemcmd "github.com/rehabworks/rehab_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "rehab",
	Short: "RehabWorks clinical rehabilitation platform.",
	Long: `RehabWorks is the backend for a clinical rehabilitation platform.
It connects rehabilitation professionals with their patients: professionals
publish exercises and assign routines, patients record their daily progress.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
