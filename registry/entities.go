package registry

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"doomdeck/db"
)

// pathTaken reports whether any row of the model has the given path,
// compared case-insensitively.
func (r *Registry) pathTaken(model interface{}, path string) (bool, error) {
	var count int64
	err := r.db.Model(model).Where("LOWER(path) = LOWER(?)", path).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Engines ---

func (r *Registry) AddEngine(e *db.Engine) error {
	taken, err := r.pathTaken(&db.Engine{}, e.Path)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("engine %s: %w", e.Path, ErrDuplicatePath)
	}
	return r.db.Create(e).Error
}

func (r *Registry) Engines() ([]db.Engine, error) {
	var engines []db.Engine
	err := r.db.Order("id").Find(&engines).Error
	return engines, err
}

func (r *Registry) Engine(id uint) (*db.Engine, error) {
	var e db.Engine
	if err := r.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("engine %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *Registry) EngineByPath(path string) (*db.Engine, error) {
	var e db.Engine
	err := r.db.Where("LOWER(path) = LOWER(?)", path).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("engine %s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

// UpdateEngineVersion persists a new version string. Path uniqueness is not
// re-validated; the path itself is unchanged.
func (r *Registry) UpdateEngineVersion(id uint, version string) error {
	return r.db.Model(&db.Engine{}).Where("id = ?", id).Update("version", version).Error
}

// DeleteEngine removes an engine unless a profile references it, then nulls
// any settings default pointing at it.
func (r *Registry) DeleteEngine(id uint) error {
	var count int64
	if err := r.db.Model(&db.Profile{}).Where("engine_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("engine %d: %w", id, ErrLinkedToProfile)
	}
	if err := r.db.Delete(&db.Engine{}, id).Error; err != nil {
		return err
	}
	return r.ClearSettingsRefs(RefEngine, id)
}

// --- Base content (IWADs) ---

func (r *Registry) AddBaseContent(b *db.BaseContent) error {
	taken, err := r.pathTaken(&db.BaseContent{}, b.Path)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("base content %s: %w", b.Path, ErrDuplicatePath)
	}
	return r.db.Create(b).Error
}

func (r *Registry) BaseContents() ([]db.BaseContent, error) {
	var rows []db.BaseContent
	err := r.db.Order("id").Find(&rows).Error
	return rows, err
}

func (r *Registry) BaseContent(id uint) (*db.BaseContent, error) {
	var b db.BaseContent
	if err := r.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("base content %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *Registry) BaseContentByPath(path string) (*db.BaseContent, error) {
	var b db.BaseContent
	err := r.db.Where("LOWER(path) = LOWER(?)", path).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("base content %s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *Registry) DeleteBaseContent(id uint) error {
	var count int64
	if err := r.db.Model(&db.Profile{}).Where("base_content_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("base content %d: %w", id, ErrLinkedToProfile)
	}
	if err := r.db.Delete(&db.BaseContent{}, id).Error; err != nil {
		return err
	}
	return r.ClearSettingsRefs(RefBaseContent, id)
}

// --- Addon content (PWADs) ---

func (r *Registry) AddAddonContent(a *db.AddonContent) error {
	taken, err := r.pathTaken(&db.AddonContent{}, a.Path)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("addon content %s: %w", a.Path, ErrDuplicatePath)
	}
	return r.db.Create(a).Error
}

func (r *Registry) AddonContents() ([]db.AddonContent, error) {
	var rows []db.AddonContent
	err := r.db.Order("id").Find(&rows).Error
	return rows, err
}

func (r *Registry) AddonContent(id uint) (*db.AddonContent, error) {
	var a db.AddonContent
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("addon content %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *Registry) AddonContentByPath(path string) (*db.AddonContent, error) {
	var a db.AddonContent
	err := r.db.Where("LOWER(path) = LOWER(?)", path).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("addon content %s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

// DeleteAddonContent removes addon content unless a profile slot or a map
// references it.
func (r *Registry) DeleteAddonContent(id uint) error {
	var count int64
	err := r.db.Model(&db.Profile{}).
		Where("addon1_id = ? OR addon2_id = ? OR addon3_id = ? OR addon4_id = ? OR addon5_id = ?",
			id, id, id, id, id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("addon content %d: %w", id, ErrLinkedToProfile)
	}
	if err := r.db.Model(&db.Map{}).Where("addon_content_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("addon content %d: %w", id, ErrLinkedToProfile)
	}
	return r.db.Delete(&db.AddonContent{}, id).Error
}

// --- Maps ---

func (r *Registry) AddMap(m *db.Map) error {
	taken, err := r.pathTaken(&db.Map{}, m.Path)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("map %s: %w", m.Path, ErrDuplicatePath)
	}
	return r.db.Create(m).Error
}

func (r *Registry) Maps() ([]db.Map, error) {
	var rows []db.Map
	err := r.db.Order("id").Find(&rows).Error
	return rows, err
}

func (r *Registry) Map(id uint) (*db.Map, error) {
	var m db.Map
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("map %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (r *Registry) MapByPath(path string) (*db.Map, error) {
	var m db.Map
	err := r.db.Where("LOWER(path) = LOWER(?)", path).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("map %s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (r *Registry) DeleteMap(id uint) error {
	return r.db.Delete(&db.Map{}, id).Error
}

// --- Editors ---

func (r *Registry) AddEditor(e *db.Editor) error {
	taken, err := r.pathTaken(&db.Editor{}, e.Path)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("editor %s: %w", e.Path, ErrDuplicatePath)
	}
	return r.db.Create(e).Error
}

func (r *Registry) Editors() ([]db.Editor, error) {
	var rows []db.Editor
	err := r.db.Order("id").Find(&rows).Error
	return rows, err
}

func (r *Registry) Editor(id uint) (*db.Editor, error) {
	var e db.Editor
	if err := r.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("editor %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *Registry) UpdateEditorVersion(id uint, version string) error {
	return r.db.Model(&db.Editor{}).Where("id = ?", id).Update("version", version).Error
}

func (r *Registry) DeleteEditor(id uint) error {
	if err := r.db.Delete(&db.Editor{}, id).Error; err != nil {
		return err
	}
	return r.ClearSettingsRefs(RefEditor, id)
}
