package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// ErrCancelled is returned when the user abandons an interactive selection.
// Handlers treat it as "no mutation performed", not as a failure.
var ErrCancelled = errors.New("cancelled by user")

var rootCmd = &cobra.Command{
	Use:   "doomdeck",
	Short: "Manage Doom source ports, WADs, profiles and queues",
	Long: `doomdeck keeps track of installed source ports, IWADs, PWADs, maps and
editors, composes launchable profiles out of them, and can search the
idgames archive to download and register new maps.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
