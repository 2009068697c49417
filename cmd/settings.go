package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/launch"
	"doomdeck/logger"
	"doomdeck/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change defaults and gameplay settings",
	Run: func(_ *cobra.Command, _ []string) {
		runSettingsShow()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change defaults and gameplay settings",
	Long: `Change defaults and gameplay settings. Only flags you pass are
touched; numeric gameplay flags accept -1 to unset.

Example:
  doomdeck settings set --default-profile 3 --skill 4 --fast`,
	Run: func(cmd *cobra.Command, _ []string) {
		runSettingsSet(cmd)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().Uint("default-engine", 0, "Default engine id")
	settingsSetCmd.Flags().Uint("default-iwad", 0, "Default base content id")
	settingsSetCmd.Flags().Uint("default-editor", 0, "Default editor id")
	settingsSetCmd.Flags().Uint("default-profile", 0, "Default profile id")

	settingsSetCmd.Flags().Int("complevel", -1, "Compatibility level (-1 to unset)")
	settingsSetCmd.Flags().Int("skill", -1, "Skill 1-5 (-1 to unset)")
	settingsSetCmd.Flags().Int("turbo", -1, "Turbo 10-255 (-1 to unset)")
	settingsSetCmd.Flags().Int("timer", -1, "Timer minutes 1-43800 (-1 to unset)")
	settingsSetCmd.Flags().Int("width", -1, "Screen width (-1 to unset)")
	settingsSetCmd.Flags().Int("height", -1, "Screen height (-1 to unset)")
	settingsSetCmd.Flags().String("warp", "", "Warp target, e.g. \"1 3\" or \"05\"")
	settingsSetCmd.Flags().Bool("fast", false, "Fast monsters")
	settingsSetCmd.Flags().Bool("nomonsters", false, "No monsters")
	settingsSetCmd.Flags().Bool("respawn", false, "Respawning monsters")
	settingsSetCmd.Flags().Bool("fullscreen", false, "Fullscreen")
	settingsSetCmd.Flags().Bool("window", false, "Windowed")
	settingsSetCmd.Flags().String("args", "", "Global extra engine arguments")
}

func runSettingsShow() {
	_, reg, _ := bootstrap(".")

	settings, err := reg.Settings()
	if err != nil {
		logger.Log.Fatalw("Failed to load settings", zap.Error(err))
	}
	playSettings, err := reg.PlaySettings()
	if err != nil {
		logger.Log.Fatalw("Failed to load play settings", zap.Error(err))
	}

	fmt.Println(ui.Title("Defaults"))
	fmt.Printf("  engine: %s  iwad: %s  editor: %s  profile: %s  last: %s\n",
		formatRef(settings.DefaultEngineID), formatRef(settings.DefaultBaseContentID),
		formatRef(settings.DefaultEditorID), formatRef(settings.DefaultProfileID),
		formatRef(settings.LastProfileID))
	fmt.Println(ui.Title("Folders"))
	fmt.Printf("  engines: %s\n  iwads: %s\n  maps: %s\n",
		settings.EnginesFolder, settings.BaseContentFolder, settings.MapsFolder)
	fmt.Println(ui.Title("Gameplay"))
	fmt.Printf("  complevel: %s  skill: %s  turbo: %s  timer: %s\n",
		formatInt(playSettings.CompLevel), formatInt(playSettings.Skill),
		formatInt(playSettings.Turbo), formatInt(playSettings.Timer))
	fmt.Printf("  warp: %q  fast: %v  nomonsters: %v  respawn: %v\n",
		playSettings.Warp, playSettings.FastMonsters, playSettings.NoMonsters, playSettings.RespawnMonsters)
	fmt.Printf("  width: %s  height: %s  fullscreen: %v  window: %v  args: %q\n",
		formatInt(playSettings.Width), formatInt(playSettings.Height),
		playSettings.Fullscreen, playSettings.Windowed, playSettings.ExtraArgs)
}

func runSettingsSet(cmd *cobra.Command) {
	_, reg, _ := bootstrap(".")

	settings, err := reg.Settings()
	if err != nil {
		logger.Log.Fatalw("Failed to load settings", zap.Error(err))
	}
	playSettings, err := reg.PlaySettings()
	if err != nil {
		logger.Log.Fatalw("Failed to load play settings", zap.Error(err))
	}

	for flag, target := range map[string]**uint{
		"default-engine":  &settings.DefaultEngineID,
		"default-iwad":    &settings.DefaultBaseContentID,
		"default-editor":  &settings.DefaultEditorID,
		"default-profile": &settings.DefaultProfileID,
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetUint(flag)
			if v == 0 {
				*target = nil
			} else {
				*target = &v
			}
		}
	}

	for flag, target := range map[string]**int{
		"complevel": &playSettings.CompLevel,
		"skill":     &playSettings.Skill,
		"turbo":     &playSettings.Turbo,
		"timer":     &playSettings.Timer,
		"width":     &playSettings.Width,
		"height":    &playSettings.Height,
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetInt(flag)
			if v < 0 {
				*target = nil
			} else {
				*target = &v
			}
		}
	}

	for flag, target := range map[string]*bool{
		"fast":       &playSettings.FastMonsters,
		"nomonsters": &playSettings.NoMonsters,
		"respawn":    &playSettings.RespawnMonsters,
		"fullscreen": &playSettings.Fullscreen,
		"window":     &playSettings.Windowed,
	} {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetBool(flag)
		}
	}

	if cmd.Flags().Changed("warp") {
		playSettings.Warp, _ = cmd.Flags().GetString("warp")
	}
	if cmd.Flags().Changed("args") {
		playSettings.ExtraArgs, _ = cmd.Flags().GetString("args")
	}

	// Out-of-range values are refused before anything is persisted.
	if err := launch.ValidatePlaySettings(playSettings); err != nil {
		logger.Log.Fatalw("Invalid gameplay setting", zap.Error(err))
	}

	if err := reg.SaveSettings(settings); err != nil {
		logger.Log.Fatalw("Failed to save settings", zap.Error(err))
	}
	if err := reg.SavePlaySettings(playSettings); err != nil {
		logger.Log.Fatalw("Failed to save play settings", zap.Error(err))
	}
	fmt.Println(ui.Success("Settings updated."))
}

func formatRef(id *uint) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
