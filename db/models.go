package db

import (
	"gorm.io/gorm"
)

// Engine is an installed source port executable.
type Engine struct {
	gorm.Model
	Path       string // Filesystem path to the executable
	Version    string // Version string reported by the probe
	EngineType string // e.g. "prboom-plus", "gzdoom", "crispy"
}

// BaseContent is a primary game data archive (IWAD).
type BaseContent struct {
	gorm.Model
	Path        string
	ContentType string // e.g. "doom", "doom2", "heretic"
}

// AddonContent is a supplementary content archive (PWAD).
type AddonContent struct {
	gorm.Model
	Path string
	Name string // Display name, usually the file stem
}

// Map is a discovered playable add-on file, possibly sourced from the
// acquisition pipeline, with title/author metadata.
type Map struct {
	gorm.Model
	Title          string
	Author         string
	Path           string
	AddonContentID *uint  // The addon record registered for the same file, if any
	RemoteID       *int64 // idgames archive id, if acquired remotely
	RemoteURL      string // idgames archive url, if acquired remotely
}

// Editor is an installed map/content editor.
type Editor struct {
	gorm.Model
	Path        string
	AppName     string
	Version     string
	LoadFileArg bool   // Whether the editor accepts a file argument on launch
	ExtraArgs   string // Raw extra argument string
}

// Profile is a named launchable combination: one engine, one base content,
// up to five ordered addon slots, plus extra arguments. The five slot
// columns are always present; unused slots are NULL.
type Profile struct {
	gorm.Model
	Name          string
	EngineID      uint
	BaseContentID uint
	Addon1ID      *uint
	Addon2ID      *uint
	Addon3ID      *uint
	Addon4ID      *uint
	Addon5ID      *uint
	ExtraArgs     string
}

// AddonSlots returns the five ordered addon slots.
func (p *Profile) AddonSlots() [5]*uint {
	return [5]*uint{p.Addon1ID, p.Addon2ID, p.Addon3ID, p.Addon4ID, p.Addon5ID}
}

// SetAddonSlots assigns the five ordered addon slots.
func (p *Profile) SetAddonSlots(slots [5]*uint) {
	p.Addon1ID = slots[0]
	p.Addon2ID = slots[1]
	p.Addon3ID = slots[2]
	p.Addon4ID = slots[3]
	p.Addon5ID = slots[4]
}

// FirstAddonID returns the first non-null addon slot, or nil if none are set.
// Launching uses a single primary addon; the remaining slots are a storage
// concept only.
func (p *Profile) FirstAddonID() *uint {
	for _, slot := range p.AddonSlots() {
		if slot != nil {
			return slot
		}
	}
	return nil
}

// Queue is a named ordered list of profiles. Name uniqueness is enforced
// case-insensitively by QueueManager, not by an index: soft-deleted rows
// must not hold a name hostage.
type Queue struct {
	gorm.Model
	Name string
}

// QueueItem is one profile's position in a queue. OrderIndex values are kept
// contiguous 0..N-1 within a queue after every mutation.
type QueueItem struct {
	gorm.Model
	QueueID    uint
	ProfileID  uint
	OrderIndex int
}

// AppSettings is the singleton settings row (id 1). The reference fields are
// weak: deleting the referenced record nulls the field here.
type AppSettings struct {
	gorm.Model
	DefaultEngineID      *uint
	DefaultBaseContentID *uint
	DefaultEditorID      *uint
	DefaultProfileID     *uint
	LastProfileID        *uint
	EnginesFolder        string
	BaseContentFolder    string
	MapsFolder           string
}

// PlaySettings is the singleton gameplay settings row (id 1), merged into
// every launch command line.
type PlaySettings struct {
	gorm.Model
	CompLevel       *int
	FastMonsters    bool
	NoMonsters      bool
	RespawnMonsters bool
	Warp            string
	Skill           *int
	Turbo           *int
	Timer           *int
	Width           *int
	Height          *int
	Fullscreen      bool
	Windowed        bool
	ExtraArgs       string
}
