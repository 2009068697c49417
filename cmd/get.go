package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/acquire"
	"doomdeck/logger"
	"doomdeck/profiles"
	"doomdeck/registry"
	"doomdeck/ui"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <search-term>",
	Short: "Search the idgames archive and download maps",
	Long: `Search the idgames archive, pick candidates, download and extract
them, and register whatever classifies as addon content.

Example:
  doomdeck get av --first`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		first, _ := cmd.Flags().GetBool("first")
		field, _ := cmd.Flags().GetString("field")
		sort, _ := cmd.Flags().GetString("sort")
		runGet(args[0], field, sort, first)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().Bool("first", false, "Skip the picker and take the first result")
	getCmd.Flags().String("field", "filename", "Search field: filename, title or author")
	getCmd.Flags().String("sort", "date", "Result order: date, filename, size or rating")
}

func runGet(term, field, sort string, first bool) {
	_, reg, client := bootstrap(".")

	pipeline := acquire.NewPipeline(reg, client, logger.Log)

	candidates, err := pipeline.Search(term, field, sort)
	if err != nil {
		logger.Log.Fatalw("Archive search failed", zap.String("term", term), zap.Error(err))
	}
	if len(candidates) == 0 {
		fmt.Println(ui.Warn("No archive entries matched " + term + "."))
		return
	}

	chosen := candidates[:1]
	if !first {
		chosen, err = pickCandidates(candidates)
		if errors.Is(err, ErrCancelled) {
			fmt.Println(ui.Dim("Selection cancelled, nothing downloaded."))
			return
		}
		if err != nil {
			logger.Log.Fatalw("Candidate selection failed", zap.Error(err))
		}
	}

	result, err := runAcquireTUI(pipeline, chosen)
	if errors.Is(err, ErrCancelled) {
		fmt.Println(ui.Dim("Download aborted."))
		return
	}
	if errors.Is(err, acquire.ErrNoMapsDownloaded) {
		fmt.Println(ui.Warn("Nothing usable was downloaded."))
		if result != nil && result.Duplicates > 0 {
			fmt.Println(ui.Dim(fmt.Sprintf("%d files were already registered.", result.Duplicates)))
		}
		os.Exit(1)
	}
	if err != nil {
		logger.Log.Fatalw("Acquisition failed", zap.Error(err))
	}

	fmt.Println(ui.Success(fmt.Sprintf("Successfully added %d Maps", len(result.Registered))))
	if result.Skipped > 0 {
		fmt.Println(ui.Warn(fmt.Sprintf("%d candidates were skipped.", result.Skipped)))
	}

	offerProfiles(reg, result)
}

// offerProfiles walks the newly registered maps and offers to create a
// profile for each, using the configured default engine and IWAD.
func offerProfiles(reg *registry.Registry, result *acquire.Result) {
	settings, err := reg.Settings()
	if err != nil {
		logger.Log.Warnw("Failed to load settings, skipping profile creation", zap.Error(err))
		return
	}
	if settings.DefaultEngineID == nil || settings.DefaultBaseContentID == nil {
		fmt.Println(ui.Dim("Set a default engine and IWAD to create profiles for new maps."))
		return
	}

	mgr := profiles.NewManager(reg)
	reader := bufio.NewReader(os.Stdin)

	for _, registered := range result.Registered {
		fmt.Printf("Create a profile for %s? (y/N): ", ui.Accent(registered.Map.Title))
		line, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(strings.ToLower(line)) != "y" {
			continue
		}

		fmt.Print("Profile name: ")
		name, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		p, err := mgr.Compose(strings.TrimSpace(name), *settings.DefaultEngineID,
			*settings.DefaultBaseContentID, []uint{registered.AddonID}, "")
		if err != nil {
			fmt.Println(ui.Error("Could not create profile: " + err.Error()))
			continue
		}
		fmt.Printf("%s profile %d (%s)\n", ui.Success("Created"), p.ID, p.Name)
	}
}
