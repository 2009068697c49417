package profiles

import (
	"errors"
	"testing"

	"doomdeck/db"
	"doomdeck/registry"
)

// fixture opens an in-memory store with one engine, one iwad, and a handful
// of addons to compose against.
type fixture struct {
	reg    *registry.Registry
	mgr    *Manager
	queues *QueueManager
	engine db.Engine
	iwad   db.BaseContent
	addons []db.AddonContent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	reg := registry.New(gdb)

	f := &fixture{
		reg:    reg,
		mgr:    NewManager(reg),
		queues: NewQueueManager(reg),
		engine: db.Engine{Path: "/ports/dsda-doom", Version: "0.27"},
		iwad:   db.BaseContent{Path: "/iwads/doom2.wad", ContentType: "doom2"},
	}
	if err := reg.AddEngine(&f.engine); err != nil {
		t.Fatal(err)
	}
	if err := reg.AddBaseContent(&f.iwad); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{"/maps/av.wad", "/maps/sunlust.wad", "/maps/valiant.wad"} {
		a := db.AddonContent{Path: path}
		if err := reg.AddAddonContent(&a); err != nil {
			t.Fatal(err)
		}
		f.addons = append(f.addons, a)
	}
	return f
}

func (f *fixture) compose(t *testing.T, name string, addonIdx ...int) *db.Profile {
	t.Helper()
	ids := make([]uint, len(addonIdx))
	for i, idx := range addonIdx {
		ids[i] = f.addons[idx].ID
	}
	p, err := f.mgr.Compose(name, f.engine.ID, f.iwad.ID, ids, "")
	if err != nil {
		t.Fatalf("Compose(%s) error: %v", name, err)
	}
	return p
}

func TestComposeSlotPacking(t *testing.T) {
	f := newFixture(t)

	p := f.compose(t, "MyRun", 1, 0)

	slots := p.AddonSlots()
	if slots[0] == nil || *slots[0] != f.addons[1].ID {
		t.Errorf("slot 0 = %v, want %d", slots[0], f.addons[1].ID)
	}
	if slots[1] == nil || *slots[1] != f.addons[0].ID {
		t.Errorf("slot 1 = %v, want %d", slots[1], f.addons[0].ID)
	}
	for i := 2; i < 5; i++ {
		if slots[i] != nil {
			t.Errorf("slot %d = %v, want nil", i, *slots[i])
		}
	}
}

func TestComposeValidation(t *testing.T) {
	f := newFixture(t)
	a := f.addons[0].ID

	t.Run("short name", func(t *testing.T) {
		_, err := f.mgr.Compose("abc", f.engine.ID, f.iwad.ID, nil, "")
		if !errors.Is(err, ErrNameTooShort) {
			t.Errorf("Compose(short name) = %v, want ErrNameTooShort", err)
		}
	})

	t.Run("duplicate addon", func(t *testing.T) {
		_, err := f.mgr.Compose("duped run", f.engine.ID, f.iwad.ID, []uint{a, a}, "")
		if !errors.Is(err, ErrDuplicateAddon) {
			t.Errorf("Compose(duplicate addon) = %v, want ErrDuplicateAddon", err)
		}
	})

	t.Run("too many addons", func(t *testing.T) {
		_, err := f.mgr.Compose("overfull", f.engine.ID, f.iwad.ID, []uint{1, 2, 3, 4, 5, 6}, "")
		if !errors.Is(err, ErrTooManyAddons) {
			t.Errorf("Compose(6 addons) = %v, want ErrTooManyAddons", err)
		}
	})

	t.Run("missing engine", func(t *testing.T) {
		_, err := f.mgr.Compose("no engine", 9999, f.iwad.ID, nil, "")
		if !errors.Is(err, registry.ErrNotFound) {
			t.Errorf("Compose(missing engine) = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing addon", func(t *testing.T) {
		_, err := f.mgr.Compose("no addon", f.engine.ID, f.iwad.ID, []uint{9999}, "")
		if !errors.Is(err, registry.ErrNotFound) {
			t.Errorf("Compose(missing addon) = %v, want ErrNotFound", err)
		}
	})
}

func TestEditKeepsID(t *testing.T) {
	f := newFixture(t)

	p := f.compose(t, "original run", 0)
	edited, err := f.mgr.Edit(p.ID, "edited run!", f.engine.ID, f.iwad.ID, []uint{f.addons[2].ID}, "-nomusic")
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if edited.ID != p.ID {
		t.Errorf("Edit changed the id: %d -> %d", p.ID, edited.ID)
	}
	if edited.Name != "edited run!" || edited.ExtraArgs != "-nomusic" {
		t.Errorf("Edit did not persist fields: %+v", edited)
	}
	slots := edited.AddonSlots()
	if slots[0] == nil || *slots[0] != f.addons[2].ID {
		t.Errorf("slot 0 = %v, want %d", slots[0], f.addons[2].ID)
	}
}

func TestDeleteProfileCascades(t *testing.T) {
	f := newFixture(t)

	a := f.compose(t, "first run")
	b := f.compose(t, "second run")
	c := f.compose(t, "third run")

	queue, err := f.queues.Create("night queue", []uint{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatal(err)
	}

	settings, err := f.reg.Settings()
	if err != nil {
		t.Fatal(err)
	}
	settings.DefaultProfileID = &b.ID
	settings.LastProfileID = &b.ID
	if err := f.reg.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	if err := f.mgr.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	settings, _ = f.reg.Settings()
	if settings.DefaultProfileID != nil || settings.LastProfileID != nil {
		t.Error("settings still reference the deleted profile")
	}

	items, err := f.queues.Items(queue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("queue has %d items after cascade, want 2", len(items))
	}
	want := []struct {
		profile uint
		index   int
	}{{a.ID, 0}, {c.ID, 1}}
	for i, w := range want {
		if items[i].ProfileID != w.profile || items[i].OrderIndex != w.index {
			t.Errorf("item %d = profile %d at %d, want profile %d at %d",
				i, items[i].ProfileID, items[i].OrderIndex, w.profile, w.index)
		}
	}
}
