package registry

import (
	"errors"

	"gorm.io/gorm"

	"doomdeck/db"
)

var (
	// ErrDuplicatePath is returned when adding an entity whose path is
	// already registered for that entity type (case-insensitive).
	ErrDuplicatePath = errors.New("path is already registered")

	// ErrNotFound is returned by lookups for unregistered entities.
	ErrNotFound = errors.New("not found in registry")

	// ErrLinkedToProfile is returned when a delete is refused because a
	// profile (or, for addon content, a map) still references the entity.
	ErrLinkedToProfile = errors.New("record is referenced by a profile")
)

// Registry enforces uniqueness and referential integrity over all stored
// entities. Callers serialize mutations; the registry assumes a single
// local writer.
type Registry struct {
	db *gorm.DB
}

func New(gdb *gorm.DB) *Registry {
	return &Registry{db: gdb}
}

// DB exposes the underlying handle for collaborators that share the store.
func (r *Registry) DB() *gorm.DB {
	return r.db
}

// Settings loads the singleton app settings row, creating it on first use.
func (r *Registry) Settings() (*db.AppSettings, error) {
	var s db.AppSettings
	if err := r.db.Where("id = ?", 1).FirstOrCreate(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings persists the singleton app settings row.
func (r *Registry) SaveSettings(s *db.AppSettings) error {
	return r.db.Save(s).Error
}

// PlaySettings loads the singleton gameplay settings row, creating it on
// first use.
func (r *Registry) PlaySettings() (*db.PlaySettings, error) {
	var s db.PlaySettings
	if err := r.db.Where("id = ?", 1).FirstOrCreate(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SavePlaySettings persists the singleton gameplay settings row.
func (r *Registry) SavePlaySettings(s *db.PlaySettings) error {
	return r.db.Save(s).Error
}

// RefKind names a weakly-referenced settings target.
type RefKind int

const (
	RefEngine RefKind = iota
	RefBaseContent
	RefEditor
	RefProfile
)

// ClearSettingsRefs nulls every app settings field that points at the given
// record. All weak-reference cleanup funnels through here so deletes cannot
// leave a dangling default.
func (r *Registry) ClearSettingsRefs(kind RefKind, id uint) error {
	settings, err := r.Settings()
	if err != nil {
		return err
	}

	var targets []**uint
	switch kind {
	case RefEngine:
		targets = []**uint{&settings.DefaultEngineID}
	case RefBaseContent:
		targets = []**uint{&settings.DefaultBaseContentID}
	case RefEditor:
		targets = []**uint{&settings.DefaultEditorID}
	case RefProfile:
		targets = []**uint{&settings.DefaultProfileID, &settings.LastProfileID}
	}

	changed := false
	for _, target := range targets {
		if *target != nil && **target == id {
			*target = nil
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.db.Save(settings).Error
}
