// Package profiles composes launchable profiles and named queues of
// profiles on top of the resource registry.
package profiles

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"doomdeck/db"
	"doomdeck/registry"
)

var (
	// ErrNameTooShort is returned for profile/queue names under 5 chars.
	ErrNameTooShort = errors.New("name must be at least 5 characters")

	// ErrTooManyAddons is returned for addon selections longer than the
	// five fixed slots.
	ErrTooManyAddons = errors.New("a profile holds at most 5 addons")

	// ErrDuplicateAddon is returned when the ordered addon selection
	// contains the same addon twice.
	ErrDuplicateAddon = errors.New("addon selected twice")
)

const minNameLen = 5

// Manager composes and maintains profiles. It receives addon selections
// already ordered and duplicate-free apart from its own validation; the
// interactive ordering step lives with the caller.
type Manager struct {
	reg *registry.Registry
}

func NewManager(reg *registry.Registry) *Manager {
	return &Manager{reg: reg}
}

// validateSelection checks the name and the ordered addon selection, and
// verifies every referenced record exists.
func (m *Manager) validateSelection(name string, engineID, baseContentID uint, addons []uint) error {
	if len(name) < minNameLen {
		return fmt.Errorf("profile %q: %w", name, ErrNameTooShort)
	}
	if len(addons) > 5 {
		return fmt.Errorf("profile %q: %w", name, ErrTooManyAddons)
	}
	seen := make(map[uint]bool, len(addons))
	for _, id := range addons {
		if seen[id] {
			return fmt.Errorf("profile %q, addon %d: %w", name, id, ErrDuplicateAddon)
		}
		seen[id] = true
	}

	if _, err := m.reg.Engine(engineID); err != nil {
		return err
	}
	if _, err := m.reg.BaseContent(baseContentID); err != nil {
		return err
	}
	for _, id := range addons {
		if _, err := m.reg.AddonContent(id); err != nil {
			return err
		}
	}
	return nil
}

// packSlots lays the ordered selection into the five fixed slots,
// left to right, padding with nil.
func packSlots(addons []uint) [5]*uint {
	var slots [5]*uint
	for i := range addons {
		id := addons[i]
		slots[i] = &id
	}
	return slots
}

// Compose validates and stores a new profile. The addons slice is the
// user's ordered selection (0-5 entries); slot order is preserved.
func (m *Manager) Compose(name string, engineID, baseContentID uint, addons []uint, extraArgs string) (*db.Profile, error) {
	if err := m.validateSelection(name, engineID, baseContentID, addons); err != nil {
		return nil, err
	}

	p := &db.Profile{
		Name:          name,
		EngineID:      engineID,
		BaseContentID: baseContentID,
		ExtraArgs:     extraArgs,
	}
	p.SetAddonSlots(packSlots(addons))

	if err := m.reg.DB().Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Edit replaces a stored profile's composition in place. The id is stable:
// queue items and settings references stay valid.
func (m *Manager) Edit(profileID uint, name string, engineID, baseContentID uint, addons []uint, extraArgs string) (*db.Profile, error) {
	p, err := m.Profile(profileID)
	if err != nil {
		return nil, err
	}
	if err := m.validateSelection(name, engineID, baseContentID, addons); err != nil {
		return nil, err
	}

	p.Name = name
	p.EngineID = engineID
	p.BaseContentID = baseContentID
	p.ExtraArgs = extraArgs
	p.SetAddonSlots(packSlots(addons))

	if err := m.reg.DB().Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a profile. Settings references are nulled first, then the
// profile's queue items are cascade-deleted and each affected queue is
// compacted back to contiguous indices. Cascading (rather than refusing)
// keeps single-user cleanup one step.
func (m *Manager) Delete(profileID uint) error {
	if _, err := m.Profile(profileID); err != nil {
		return err
	}

	if err := m.reg.ClearSettingsRefs(registry.RefProfile, profileID); err != nil {
		return err
	}

	var items []db.QueueItem
	if err := m.reg.DB().Where("profile_id = ?", profileID).Find(&items).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := m.reg.DB().Where("profile_id = ?", profileID).Delete(&db.QueueItem{}).Error; err != nil {
			return err
		}
		queues := NewQueueManager(m.reg)
		seen := make(map[uint]bool)
		for _, item := range items {
			if seen[item.QueueID] {
				continue
			}
			seen[item.QueueID] = true
			if err := queues.compact(item.QueueID); err != nil {
				return err
			}
		}
	}

	return m.reg.DB().Delete(&db.Profile{}, profileID).Error
}

// Profile fetches one profile by id.
func (m *Manager) Profile(profileID uint) (*db.Profile, error) {
	var p db.Profile
	if err := m.reg.DB().First(&p, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile %d: %w", profileID, registry.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// Profiles lists all profiles in id order.
func (m *Manager) Profiles() ([]db.Profile, error) {
	var rows []db.Profile
	err := m.reg.DB().Order("id").Find(&rows).Error
	return rows, err
}
