package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"doomdeck/probe"
	"doomdeck/wad"
)

// DiscoverEngines walks a folder for engine executables and probes each one
// for version metadata. Candidates whose probe fails are skipped and logged,
// they never abort the scan.
func DiscoverEngines(ctx context.Context, folder string, prober probe.Prober, log *zap.SugaredLogger) []DiscoveredEngine {
	var discovered []DiscoveredEngine

	walkErr := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !looksExecutable(path, info) {
			return nil
		}

		pi, err := prober.Probe(ctx, path)
		if err != nil {
			log.Warnw("Skipping engine candidate, version probe failed",
				zap.String("path", path), zap.Error(err))
			return nil
		}

		discovered = append(discovered, DiscoveredEngine{
			Path:       path,
			Version:    pi.Version(),
			EngineType: strings.ToLower(pi.AppName),
		})
		return nil
	})
	if walkErr != nil {
		log.Errorw("Error scanning engines folder", zap.String("dir", folder), zap.Error(walkErr))
	}

	return discovered
}

// DiscoverContent walks a folder and classifies each file, returning the
// base content and addon content sets. Files the classifier cannot read are
// skipped and logged.
func DiscoverContent(folder string, log *zap.SugaredLogger) (base, addons []DiscoveredContent) {
	walkErr := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		kind, err := wad.Classify(path)
		if err != nil {
			log.Warnw("Skipping unreadable content file", zap.String("path", path), zap.Error(err))
			return nil
		}

		switch kind {
		case wad.Base:
			base = append(base, DiscoveredContent{Path: path, Tag: fileStem(path)})
		case wad.Addon:
			addons = append(addons, DiscoveredContent{Path: path, Tag: fileStem(path)})
		}
		return nil
	})
	if walkErr != nil {
		log.Errorw("Error scanning content folder", zap.String("dir", folder), zap.Error(walkErr))
	}

	return base, addons
}

func looksExecutable(path string, info os.FileInfo) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".exe" {
		return true
	}
	return ext == "" && info.Mode()&0111 != 0
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
