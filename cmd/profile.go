package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/logger"
	"doomdeck/profiles"
	"doomdeck/ui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage launch profiles",
	Long: `Manage launch profiles. A profile combines one engine, one IWAD, up
to five ordered PWADs and extra arguments into something playable.`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new profile",
	Long: `Create a new profile.

The --addons list is ordered: "--addons 5,3" loads PWAD 5 before PWAD 3.

Example:
  doomdeck profile add --name "av speedrun" --engine 1 --iwad 2 --addons 5,3`,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("name")
		engine, _ := cmd.Flags().GetUint("engine")
		iwad, _ := cmd.Flags().GetUint("iwad")
		addonsCSV, _ := cmd.Flags().GetString("addons")
		extraArgs, _ := cmd.Flags().GetString("args")
		runProfileAdd(name, engine, iwad, addonsCSV, extraArgs)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a profile's composition",
	Long: `Replace a profile's composition in place. The id stays stable, so
queues and defaults referencing it keep working.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		name, _ := cmd.Flags().GetString("name")
		engine, _ := cmd.Flags().GetUint("engine")
		iwad, _ := cmd.Flags().GetUint("iwad")
		addonsCSV, _ := cmd.Flags().GetString("addons")
		extraArgs, _ := cmd.Flags().GetString("args")
		runProfileEdit(id, name, engine, iwad, addonsCSV, extraArgs)
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Long: `Delete a profile. Settings defaults pointing at it are cleared and
its queue entries are removed.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runProfileDelete(parseID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileAddCmd, profileEditCmd, profileDeleteCmd)

	for _, c := range []*cobra.Command{profileAddCmd, profileEditCmd} {
		c.Flags().String("name", "", "Profile name (at least 5 characters)")
		c.Flags().Uint("engine", 0, "Engine id")
		c.Flags().Uint("iwad", 0, "Base content (IWAD) id")
		c.Flags().String("addons", "", "Ordered comma-separated PWAD ids, up to five")
		c.Flags().String("args", "", "Extra engine arguments")
	}
}

func parseID(arg string) uint {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		logger.Log.Fatalw("Bad id argument", zap.String("arg", arg), zap.Error(err))
	}
	return uint(id)
}

func runProfileAdd(name string, engine, iwad uint, addonsCSV, extraArgs string) {
	_, reg, _ := bootstrap(".")

	addons, err := parseIDList(addonsCSV)
	if err != nil {
		logger.Log.Fatalw("Bad --addons list", zap.Error(err))
	}

	p, err := profiles.NewManager(reg).Compose(name, engine, iwad, addons, extraArgs)
	if err != nil {
		logger.Log.Fatalw("Failed to create profile", zap.Error(err))
	}
	fmt.Printf("%s profile %d (%s)\n", ui.Success("Created"), p.ID, p.Name)
}

func runProfileEdit(id uint, name string, engine, iwad uint, addonsCSV, extraArgs string) {
	_, reg, _ := bootstrap(".")

	addons, err := parseIDList(addonsCSV)
	if err != nil {
		logger.Log.Fatalw("Bad --addons list", zap.Error(err))
	}

	p, err := profiles.NewManager(reg).Edit(id, name, engine, iwad, addons, extraArgs)
	if err != nil {
		logger.Log.Fatalw("Failed to edit profile", zap.Uint("id", id), zap.Error(err))
	}
	fmt.Printf("%s profile %d (%s)\n", ui.Success("Updated"), p.ID, p.Name)
}

func runProfileDelete(id uint) {
	_, reg, _ := bootstrap(".")

	if err := profiles.NewManager(reg).Delete(id); err != nil {
		logger.Log.Fatalw("Failed to delete profile", zap.Uint("id", id), zap.Error(err))
	}
	fmt.Printf("%s profile %d\n", ui.Success("Deleted"), id)
}
