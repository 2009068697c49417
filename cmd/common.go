package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"doomdeck/config"
	"doomdeck/db"
	"doomdeck/idgames"
	"doomdeck/logger"
	"doomdeck/registry"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) (config.Config, *registry.Registry, *idgames.Client) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	client, err := idgames.NewClient(cfg)
	if err != nil {
		logger.Log.Fatalw("Failed to create idgames client", zap.Error(err))
	}

	return cfg, registry.New(db.DB), client
}

// parseIDList parses a comma-separated id list such as "5,3" into ids,
// preserving order.
func parseIDList(csv string) ([]uint, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", part, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
