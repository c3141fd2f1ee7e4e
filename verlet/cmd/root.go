// Package cmd provides the command-line interface of verlet.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/verlet/config"
)

var (
	envFiles []string
	cfg      config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "verlet",
	Short: "verlet steps particle and constraint simulations at a fixed rate.",
	Long: `verlet steps particle and constraint simulations at a fixed rate. ` +
		`It can run a demo rope scene headlessly, record every tick into SQLite, ` +
		`serve a monitoring page, or draw the scene in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(envFiles...)

		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env",
		[]string{".env"}, ".env files to read settings from")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits through atexit so that recorders get flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
