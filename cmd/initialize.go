package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/logger"
	"doomdeck/probe"
	"doomdeck/registry"
	"doomdeck/ui"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure search folders and scan them for content",
	Long: `Stores the engines, IWAD and maps folders in settings, then scans
them: engines are version-probed, content files are classified by their
WAD header. Re-running init re-scans with the stored folders.`,
	Run: func(cmd *cobra.Command, _ []string) {
		engines, _ := cmd.Flags().GetString("engines")
		iwads, _ := cmd.Flags().GetString("iwads")
		maps, _ := cmd.Flags().GetString("maps")
		runInit(engines, iwads, maps)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("engines", "", "Folder holding source port executables")
	initCmd.Flags().String("iwads", "", "Folder holding base game WADs")
	initCmd.Flags().String("maps", "", "Folder holding addon WADs and downloaded maps")
}

func runInit(enginesFolder, iwadsFolder, mapsFolder string) {
	_, reg, _ := bootstrap(".")

	settings, err := reg.Settings()
	if err != nil {
		logger.Log.Fatalw("Failed to load settings", zap.Error(err))
	}
	if enginesFolder != "" {
		settings.EnginesFolder = enginesFolder
	}
	if iwadsFolder != "" {
		settings.BaseContentFolder = iwadsFolder
	}
	if mapsFolder != "" {
		settings.MapsFolder = mapsFolder
	}
	if err := reg.SaveSettings(settings); err != nil {
		logger.Log.Fatalw("Failed to save settings", zap.Error(err))
	}

	runScans(reg)
}

// runScans reconciles the registry against the configured folders.
func runScans(reg *registry.Registry) {
	settings, err := reg.Settings()
	if err != nil {
		logger.Log.Fatalw("Failed to load settings", zap.Error(err))
	}

	if settings.EnginesFolder != "" {
		discovered := registry.DiscoverEngines(context.Background(), settings.EnginesFolder, probe.ExecProbe{}, logger.Log)
		report, err := reg.ReconcileEngines(discovered)
		if err != nil {
			logger.Log.Fatalw("Engine scan failed", zap.Error(err))
		}
		printReport("Engines", report)
	}

	// Addons from the iwad folder and the maps folder reconcile together:
	// the addon table spans both.
	var allAddons []registry.DiscoveredContent

	if settings.BaseContentFolder != "" {
		base, addons := registry.DiscoverContent(settings.BaseContentFolder, logger.Log)
		report, err := reg.ReconcileBaseContent(base)
		if err != nil {
			logger.Log.Fatalw("IWAD scan failed", zap.Error(err))
		}
		printReport("IWADs", report)
		allAddons = append(allAddons, addons...)
	}

	if settings.MapsFolder != "" {
		_, addons := registry.DiscoverContent(settings.MapsFolder, logger.Log)
		allAddons = append(allAddons, addons...)
	}

	if settings.BaseContentFolder != "" || settings.MapsFolder != "" {
		report, err := reg.ReconcileAddonContent(allAddons)
		if err != nil {
			logger.Log.Fatalw("PWAD scan failed", zap.Error(err))
		}
		printReport("PWADs", report)
	}
}

func printReport(label string, report registry.ScanReport) {
	fmt.Printf("%s: %s\n", ui.Title(label),
		fmt.Sprintf("%d added, %d updated, %d removed", report.Added, report.Updated, report.Removed))
	for _, path := range report.Undeletable {
		fmt.Println(ui.Warn("  still referenced by a profile, kept: " + path))
	}
}
