package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/db"
	"doomdeck/logger"
	"doomdeck/probe"
	"doomdeck/ui"
)

var editorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Manage registered map editors",
}

var editorAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register an editor executable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loadFile, _ := cmd.Flags().GetBool("load-file")
		extraArgs, _ := cmd.Flags().GetString("args")
		runEditorAdd(args[0], loadFile, extraArgs)
	},
}

var editorDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a registered editor",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runEditorDelete(parseID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(editorCmd)
	editorCmd.AddCommand(editorAddCmd, editorDeleteCmd)

	editorAddCmd.Flags().Bool("load-file", false, "Editor accepts a file argument on launch")
	editorAddCmd.Flags().String("args", "", "Extra editor arguments")
}

func runEditorAdd(path string, loadFile bool, extraArgs string) {
	_, reg, _ := bootstrap(".")

	editor := &db.Editor{Path: path, LoadFileArg: loadFile, ExtraArgs: extraArgs}

	info, err := probe.ExecProbe{}.Probe(context.Background(), path)
	if err != nil {
		// An unprobed editor is still usable; register it without version.
		logger.Log.Warnw("Version probe failed, registering without version", zap.Error(err))
		editor.AppName = path
	} else {
		editor.AppName = info.AppName
		editor.Version = info.Version()
	}

	if err := reg.AddEditor(editor); err != nil {
		logger.Log.Fatalw("Failed to register editor", zap.String("path", path), zap.Error(err))
	}
	fmt.Printf("%s editor %d (%s %s)\n", ui.Success("Registered"), editor.ID, editor.AppName, editor.Version)
}

func runEditorDelete(id uint) {
	_, reg, _ := bootstrap(".")

	if err := reg.DeleteEditor(id); err != nil {
		logger.Log.Fatalw("Failed to delete editor", zap.Uint("id", id), zap.Error(err))
	}
	fmt.Printf("%s editor %d\n", ui.Success("Deleted"), id)
}
