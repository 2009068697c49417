package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doomdeck/config"
	"doomdeck/logger"
	"doomdeck/ui"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database and start over",
	Long:  `Delete the database file. All registered entities, profiles and queues are lost.`,
	Run: func(_ *cobra.Command, _ []string) {
		runReset()
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	fmt.Printf("This deletes %s and everything in it. Type %s to continue: ",
		cfg.DatabasePath, ui.Error("yes"))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "yes" {
		fmt.Println(ui.Dim("Reset cancelled."))
		return
	}

	if err := os.Remove(cfg.DatabasePath); err != nil && !os.IsNotExist(err) {
		logger.Log.Fatalw("Failed to delete database", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}
	fmt.Println(ui.Success("Database deleted. Run 'doomdeck init' to start over."))
}
