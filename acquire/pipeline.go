// Package acquire implements the map acquisition pipeline: search the
// remote archive index, download, extract, classify, dedupe, and register
// new map content.
package acquire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"doomdeck/db"
	"doomdeck/idgames"
	"doomdeck/registry"
	"doomdeck/wad"
)

var (
	// ErrNoMapsFolderConfigured is returned when acquisition runs without
	// a configured local maps root.
	ErrNoMapsFolderConfigured = errors.New("no maps folder configured")

	// ErrNoMapsDownloaded is returned when a whole batch completes without
	// registering a single map.
	ErrNoMapsDownloaded = errors.New("no usable maps were downloaded")
)

// ExtractionError reports a corrupt or unreadable archive.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// cacheDirName is the download cache subfolder under the maps root.
const cacheDirName = "downloads"

// RegisteredMap pairs a newly registered map with its addon record, so the
// caller can offer profile creation for it.
type RegisteredMap struct {
	Map     db.Map
	AddonID uint
}

// Result summarizes one acquisition batch.
type Result struct {
	Registered []RegisteredMap
	Skipped    int // candidates skipped for network/extraction failures
	Duplicates int // extracted files already present in the registry
}

// Pipeline runs acquisitions sequentially: one candidate at a time, one
// network operation at a time. A failed candidate is skipped, the batch
// continues.
type Pipeline struct {
	reg    *registry.Registry
	client *idgames.Client
	log    *zap.SugaredLogger

	// Progress, when set, receives human-readable stage updates.
	Progress func(message string)
}

func NewPipeline(reg *registry.Registry, client *idgames.Client, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{reg: reg, client: client, log: log}
}

func (p *Pipeline) progress(format string, args ...interface{}) {
	if p.Progress != nil {
		p.Progress(fmt.Sprintf(format, args...))
	}
}

// Search queries the archive index by the given field.
func (p *Pipeline) Search(term, field, sort string) ([]idgames.Candidate, error) {
	return p.client.Search(term, field, sort)
}

// Lookup finds the archive entry for an existing local filename. When the
// index returns several entries the first one in the requested sort order
// is taken; whether that is the right entry is an unverified assumption
// carried over for compatibility.
func (p *Pipeline) Lookup(filename string) (*idgames.Candidate, error) {
	candidates, err := p.client.Search(filename, "filename", "date")
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("archive entry for %s: %w", filename, registry.ErrNotFound)
	}
	return &candidates[0], nil
}

// DownloadAndExtract processes candidates one by one: clean the cache slot,
// clean the extraction folder, verify reachability, download, extract,
// classify, and register whatever is usable. The batch fails only when
// nothing at all was registered.
func (p *Pipeline) DownloadAndExtract(candidates []idgames.Candidate) (*Result, error) {
	settings, err := p.reg.Settings()
	if err != nil {
		return nil, err
	}
	if settings.MapsFolder == "" {
		return nil, ErrNoMapsFolderConfigured
	}

	cacheDir := filepath.Join(settings.MapsFolder, cacheDirName)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download cache '%s': %w", cacheDir, err)
	}

	result := &Result{}
	for _, candidate := range candidates {
		if err := p.processCandidate(candidate, cacheDir, settings.MapsFolder, result); err != nil {
			p.log.Warnw("Skipping candidate",
				zap.String("filename", candidate.Filename),
				zap.Error(err),
			)
			p.progress("Skipping %s: %v", candidate.Filename, err)
			result.Skipped++
		}
	}

	if len(result.Registered) == 0 {
		return result, ErrNoMapsDownloaded
	}
	return result, nil
}

func (p *Pipeline) processCandidate(candidate idgames.Candidate, cacheDir, mapsFolder string, result *Result) error {
	cachePath := filepath.Join(cacheDir, candidate.Filename)

	// A stale cached archive is removed up front; downloads are always
	// fresh, never reused.
	if _, err := os.Stat(cachePath); err == nil {
		if err := os.Remove(cachePath); err != nil {
			return fmt.Errorf("failed to remove stale download '%s': %w", cachePath, err)
		}
	}

	// Same for the extraction folder: re-extraction starts empty.
	extractDir := filepath.Join(mapsFolder, archiveStem(candidate.Filename))
	if _, err := os.Stat(extractDir); err == nil {
		if err := os.RemoveAll(extractDir); err != nil {
			return fmt.Errorf("failed to clear extraction folder '%s': %w", extractDir, err)
		}
	}

	downloadURL := p.client.DownloadURL(candidate)
	p.progress("Checking %s", downloadURL)
	if err := p.client.CheckReachable(downloadURL); err != nil {
		return err
	}

	p.progress("Downloading %s", candidate.Filename)
	if err := p.client.DownloadFile(p.log, cachePath, downloadURL); err != nil {
		return err
	}

	p.progress("Extracting %s", candidate.Filename)
	extracted, err := extractZip(cachePath, extractDir)
	if err != nil {
		return &ExtractionError{Archive: cachePath, Err: err}
	}

	for _, path := range extracted {
		if err := p.registerExtracted(candidate, path, result); err != nil {
			return err
		}
	}
	return nil
}

// registerExtracted classifies one extracted file and registers it as addon
// content plus a map record, skipping anything already known.
func (p *Pipeline) registerExtracted(candidate idgames.Candidate, path string, result *Result) error {
	kind, err := wad.Classify(path)
	if err != nil {
		// Unreadable extracted file: skip it, keep the batch going.
		p.log.Warnw("Skipping unreadable extracted file", zap.String("path", path), zap.Error(err))
		return nil
	}
	if kind != wad.Addon {
		return nil
	}

	if _, err := p.reg.MapByPath(path); err == nil {
		p.log.Infow("Map already registered, skipping", zap.String("path", path))
		result.Duplicates++
		return nil
	} else if !errors.Is(err, registry.ErrNotFound) {
		return err
	}

	addon, err := p.reg.AddonContentByPath(path)
	if errors.Is(err, registry.ErrNotFound) {
		addon = &db.AddonContent{Path: path, Name: archiveStem(filepath.Base(path))}
		if err := p.reg.AddAddonContent(addon); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	remoteID := candidate.ID
	m := db.Map{
		Title:          candidate.Title,
		Author:         candidate.Author,
		Path:           path,
		AddonContentID: &addon.ID,
		RemoteID:       &remoteID,
		RemoteURL:      candidate.URL,
	}
	if err := p.reg.AddMap(&m); err != nil {
		return err
	}

	p.progress("Registered map %s", m.Title)
	result.Registered = append(result.Registered, RegisteredMap{Map: m, AddonID: addon.ID})
	return nil
}

func archiveStem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
