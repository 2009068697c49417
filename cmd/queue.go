package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/logger"
	"doomdeck/profiles"
	"doomdeck/ui"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage queues of profiles",
}

var queueCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a named queue",
	Long: `Create a named queue. The --profiles list is ordered and becomes the
initial contents.

Example:
  doomdeck queue create --name "weekend runs" --profiles 3,1,7`,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("name")
		profilesCSV, _ := cmd.Flags().GetString("profiles")
		runQueueCreate(name, profilesCSV)
	},
}

var queueAppendCmd = &cobra.Command{
	Use:   "add <queue-id> <profile-id>",
	Short: "Append a profile to a queue",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		runQueueAppend(parseID(args[0]), parseID(args[1]))
	},
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove <queue-id> <profile-id>",
	Short: "Remove a profile from a queue",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		runQueueRemove(parseID(args[0]), parseID(args[1]))
	},
}

var queueReorderCmd = &cobra.Command{
	Use:   "reorder <queue-id>",
	Short: "Replace a queue's contents and order",
	Long:  `Replace a queue's contents with the ordered --profiles list.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profilesCSV, _ := cmd.Flags().GetString("profiles")
		runQueueReorder(parseID(args[0]), profilesCSV)
	},
}

var queueDeleteCmd = &cobra.Command{
	Use:   "delete <queue-id>",
	Short: "Delete a queue and its items",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runQueueDelete(parseID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.AddCommand(queueCreateCmd, queueAppendCmd, queueRemoveCmd, queueReorderCmd, queueDeleteCmd)

	queueCreateCmd.Flags().String("name", "", "Queue name (at least 5 characters, unique)")
	queueCreateCmd.Flags().String("profiles", "", "Ordered comma-separated profile ids")
	queueReorderCmd.Flags().String("profiles", "", "Ordered comma-separated profile ids")
}

func runQueueCreate(name, profilesCSV string) {
	_, reg, _ := bootstrap(".")

	ids, err := parseIDList(profilesCSV)
	if err != nil {
		logger.Log.Fatalw("Bad --profiles list", zap.Error(err))
	}

	q, err := profiles.NewQueueManager(reg).Create(name, ids)
	if err != nil {
		logger.Log.Fatalw("Failed to create queue", zap.Error(err))
	}
	fmt.Printf("%s queue %d (%s) with %d profiles\n", ui.Success("Created"), q.ID, q.Name, len(ids))
}

func runQueueAppend(queueID, profileID uint) {
	_, reg, _ := bootstrap(".")

	if err := profiles.NewQueueManager(reg).AppendItem(queueID, profileID); err != nil {
		logger.Log.Fatalw("Failed to append to queue", zap.Uint("queue", queueID), zap.Error(err))
	}
	fmt.Printf("%s profile %d to queue %d\n", ui.Success("Added"), profileID, queueID)
}

func runQueueRemove(queueID, profileID uint) {
	_, reg, _ := bootstrap(".")

	if err := profiles.NewQueueManager(reg).RemoveItem(queueID, profileID); err != nil {
		logger.Log.Fatalw("Failed to remove from queue", zap.Uint("queue", queueID), zap.Error(err))
	}
	fmt.Printf("%s profile %d from queue %d\n", ui.Success("Removed"), profileID, queueID)
}

func runQueueReorder(queueID uint, profilesCSV string) {
	_, reg, _ := bootstrap(".")

	ids, err := parseIDList(profilesCSV)
	if err != nil {
		logger.Log.Fatalw("Bad --profiles list", zap.Error(err))
	}

	if err := profiles.NewQueueManager(reg).ReplaceItems(queueID, ids); err != nil {
		logger.Log.Fatalw("Failed to reorder queue", zap.Uint("queue", queueID), zap.Error(err))
	}
	fmt.Printf("%s queue %d\n", ui.Success("Reordered"), queueID)
}

func runQueueDelete(queueID uint) {
	_, reg, _ := bootstrap(".")

	if err := profiles.NewQueueManager(reg).Delete(queueID); err != nil {
		logger.Log.Fatalw("Failed to delete queue", zap.Uint("queue", queueID), zap.Error(err))
	}
	fmt.Printf("%s queue %d\n", ui.Success("Deleted"), queueID)
}
