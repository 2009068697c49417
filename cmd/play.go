package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/db"
	"doomdeck/launch"
	"doomdeck/logger"
	"doomdeck/profiles"
	"doomdeck/ui"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Launch a profile or a whole queue",
	Long: `Launch the engine for one profile, or work through a queue of
profiles in order. Without flags the default profile from settings is used.`,
	Run: func(cmd *cobra.Command, _ []string) {
		profileID, _ := cmd.Flags().GetUint("profile")
		queueID, _ := cmd.Flags().GetUint("queue")
		last, _ := cmd.Flags().GetBool("last")
		runPlay(profileID, queueID, last)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().UintP("profile", "p", 0, "Profile id to launch")
	playCmd.Flags().UintP("queue", "q", 0, "Queue id to play through in order")
	playCmd.Flags().Bool("last", false, "Relaunch the last played profile")
}

func runPlay(profileID, queueID uint, last bool) {
	_, reg, _ := bootstrap(".")

	mgr := profiles.NewManager(reg)
	resolver := launch.NewResolver(reg, logger.Log)

	playSettings, err := reg.PlaySettings()
	if err != nil {
		logger.Log.Fatalw("Failed to load play settings", zap.Error(err))
	}

	if queueID != 0 {
		playQueue(mgr, profiles.NewQueueManager(reg), resolver, playSettings, queueID)
		return
	}

	if profileID == 0 {
		settings, err := reg.Settings()
		if err != nil {
			logger.Log.Fatalw("Failed to load settings", zap.Error(err))
		}
		switch {
		case last && settings.LastProfileID != nil:
			profileID = *settings.LastProfileID
		case settings.DefaultProfileID != nil:
			profileID = *settings.DefaultProfileID
		default:
			fmt.Println(ui.Warn("No profile selected and no default configured. Use --profile <id>."))
			return
		}
	}

	profile, err := mgr.Profile(profileID)
	if err != nil {
		logger.Log.Fatalw("Failed to load profile", zap.Uint("id", profileID), zap.Error(err))
	}

	launchProfile(resolver, profile, playSettings)
}

// playQueue launches each queued profile in order-index order, waiting for
// the user between launches. Stopping early is a normal outcome.
func playQueue(mgr *profiles.Manager, queues *profiles.QueueManager, resolver *launch.Resolver, playSettings *db.PlaySettings, queueID uint) {
	queue, err := queues.Queue(queueID)
	if err != nil {
		logger.Log.Fatalw("Failed to load queue", zap.Uint("id", queueID), zap.Error(err))
	}
	items, err := queues.Items(queueID)
	if err != nil {
		logger.Log.Fatalw("Failed to load queue items", zap.Error(err))
	}
	if len(items) == 0 {
		fmt.Println(ui.Warn(fmt.Sprintf("Queue %q is empty.", queue.Name)))
		return
	}

	reader := bufio.NewReader(os.Stdin)
	for i, item := range items {
		profile, err := mgr.Profile(item.ProfileID)
		if err != nil {
			logger.Log.Warnw("Skipping queue item, profile missing",
				zap.Uint("profile_id", item.ProfileID), zap.Error(err))
			continue
		}
		if i > 0 && !promptContinue(reader, profile.Name) {
			fmt.Println(ui.Dim("Queue playback stopped."))
			return
		}
		launchProfile(resolver, profile, playSettings)
	}
}

func launchProfile(resolver *launch.Resolver, profile *db.Profile, playSettings *db.PlaySettings) {
	err := resolver.Launch(profile, playSettings, true)
	if err == nil {
		fmt.Printf("%s %s\n", ui.Success("Launched"), profile.Name)
		return
	}

	var launchErr *launch.LaunchError
	if errors.As(err, &launchErr) {
		fmt.Println(ui.Error("Failed to launch engine."))
		fmt.Println(ui.Dim("Attempted: " + launchErr.Executable + " " + strings.Join(launchErr.Args, " ")))
	}
	logger.Log.Fatalw("Launch failed", zap.String("profile", profile.Name), zap.Error(err))
}

// promptContinue asks the user whether to keep going through the queue.
// Returns false on "q" or EOF.
func promptContinue(reader *bufio.Reader, next string) bool {
	fmt.Printf("Press enter to launch %s (q to stop): ", ui.Accent(next))
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(line)) != "q"
}
