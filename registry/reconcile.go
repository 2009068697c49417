package registry

import (
	"errors"
	"strings"

	"doomdeck/db"
)

// DiscoveredEngine is one engine candidate found by a folder scan with a
// successful version probe.
type DiscoveredEngine struct {
	Path       string
	Version    string
	EngineType string
}

// DiscoveredContent is one content file found by a folder scan.
type DiscoveredContent struct {
	Path string
	// Tag is the content-type for base content and the display name for
	// addon content.
	Tag string
}

// ScanReport summarizes one reconcile pass.
type ScanReport struct {
	Added   int
	Updated int
	Removed int
	// Undeletable lists registered paths that vanished from disk but are
	// still referenced by a profile; they are left in place.
	Undeletable []string
}

// ReconcileEngines brings the engine table in line with a freshly
// discovered set: vanished entries are deleted (profile-linked ones are
// kept and reported), new entries are added, and version strings are
// refreshed where the probe reports a change.
func (r *Registry) ReconcileEngines(discovered []DiscoveredEngine) (ScanReport, error) {
	var report ScanReport

	existing, err := r.Engines()
	if err != nil {
		return report, err
	}

	found := make(map[string]DiscoveredEngine, len(discovered))
	for _, d := range discovered {
		found[strings.ToLower(d.Path)] = d
	}

	for _, e := range existing {
		d, present := found[strings.ToLower(e.Path)]
		if !present {
			if err := r.DeleteEngine(e.ID); err != nil {
				if errors.Is(err, ErrLinkedToProfile) {
					report.Undeletable = append(report.Undeletable, e.Path)
					continue
				}
				return report, err
			}
			report.Removed++
			continue
		}
		if d.Version != "" && d.Version != e.Version {
			if err := r.UpdateEngineVersion(e.ID, d.Version); err != nil {
				return report, err
			}
			report.Updated++
		}
		delete(found, strings.ToLower(e.Path))
	}

	for _, d := range found {
		err := r.AddEngine(&db.Engine{Path: d.Path, Version: d.Version, EngineType: d.EngineType})
		if err != nil {
			return report, err
		}
		report.Added++
	}

	return report, nil
}

// ReconcileBaseContent reconciles the base content table against a
// discovered set, with the same delete/keep/add policy as engines.
func (r *Registry) ReconcileBaseContent(discovered []DiscoveredContent) (ScanReport, error) {
	var report ScanReport

	existing, err := r.BaseContents()
	if err != nil {
		return report, err
	}

	found := make(map[string]DiscoveredContent, len(discovered))
	for _, d := range discovered {
		found[strings.ToLower(d.Path)] = d
	}

	for _, b := range existing {
		if _, present := found[strings.ToLower(b.Path)]; present {
			delete(found, strings.ToLower(b.Path))
			continue
		}
		if err := r.DeleteBaseContent(b.ID); err != nil {
			if errors.Is(err, ErrLinkedToProfile) {
				report.Undeletable = append(report.Undeletable, b.Path)
				continue
			}
			return report, err
		}
		report.Removed++
	}

	for _, d := range found {
		if err := r.AddBaseContent(&db.BaseContent{Path: d.Path, ContentType: d.Tag}); err != nil {
			return report, err
		}
		report.Added++
	}

	return report, nil
}

// ReconcileAddonContent reconciles the addon content table against a
// discovered set.
func (r *Registry) ReconcileAddonContent(discovered []DiscoveredContent) (ScanReport, error) {
	var report ScanReport

	existing, err := r.AddonContents()
	if err != nil {
		return report, err
	}

	found := make(map[string]DiscoveredContent, len(discovered))
	for _, d := range discovered {
		found[strings.ToLower(d.Path)] = d
	}

	for _, a := range existing {
		if _, present := found[strings.ToLower(a.Path)]; present {
			delete(found, strings.ToLower(a.Path))
			continue
		}
		if err := r.DeleteAddonContent(a.ID); err != nil {
			if errors.Is(err, ErrLinkedToProfile) {
				report.Undeletable = append(report.Undeletable, a.Path)
				continue
			}
			return report, err
		}
		report.Removed++
	}

	for _, d := range found {
		if err := r.AddAddonContent(&db.AddonContent{Path: d.Path, Name: d.Tag}); err != nil {
			return report, err
		}
		report.Added++
	}

	return report, nil
}
