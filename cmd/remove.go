package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/logger"
	"doomdeck/registry"
	"doomdeck/ui"
)

var removeCmd = &cobra.Command{
	Use:   "remove [engine|iwad|pwad|map] <id>",
	Short: "Remove a registered entity",
	Long: `Remove a registered entity. Entities referenced by a profile (or,
for PWADs, by a map) are refused.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"engine", "iwad", "pwad", "map"},
	Run: func(_ *cobra.Command, args []string) {
		runRemove(args[0], parseID(args[1]))
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(entity string, id uint) {
	_, reg, _ := bootstrap(".")

	var err error
	switch entity {
	case "engine":
		err = reg.DeleteEngine(id)
	case "iwad":
		err = reg.DeleteBaseContent(id)
	case "pwad":
		err = reg.DeleteAddonContent(id)
	case "map":
		err = reg.DeleteMap(id)
	default:
		logger.Log.Fatalw("Unknown entity", zap.String("entity", entity))
	}

	if errors.Is(err, registry.ErrLinkedToProfile) {
		fmt.Println(ui.Warn(fmt.Sprintf("%s %d is still referenced and was not removed.", entity, id)))
		return
	}
	if err != nil {
		logger.Log.Fatalw("Failed to remove "+entity, zap.Uint("id", id), zap.Error(err))
	}
	fmt.Printf("%s %s %d\n", ui.Success("Removed"), entity, id)
}
