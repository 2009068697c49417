package registry

import (
	"errors"
	"testing"

	"doomdeck/db"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return New(gdb)
}

func TestAddDuplicatePath(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.AddEngine(&db.Engine{Path: "/ports/GZDoom", Version: "4.11"}); err != nil {
		t.Fatalf("AddEngine() error: %v", err)
	}

	err := r.AddEngine(&db.Engine{Path: "/ports/gzdoom", Version: "4.12"})
	if !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("AddEngine(same path, different case) = %v, want ErrDuplicatePath", err)
	}

	engines, err := r.Engines()
	if err != nil {
		t.Fatalf("Engines() error: %v", err)
	}
	if len(engines) != 1 {
		t.Errorf("Expected 1 engine after duplicate add, got %d", len(engines))
	}
}

func TestGetByPath(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.AddBaseContent(&db.BaseContent{Path: "/iwads/DOOM2.WAD", ContentType: "doom2"}); err != nil {
		t.Fatalf("AddBaseContent() error: %v", err)
	}

	b, err := r.BaseContentByPath("/iwads/doom2.wad")
	if err != nil {
		t.Fatalf("BaseContentByPath() error: %v", err)
	}
	if b.ContentType != "doom2" {
		t.Errorf("ContentType = %q, want doom2", b.ContentType)
	}

	if _, err := r.BaseContentByPath("/iwads/heretic.wad"); !errors.Is(err, ErrNotFound) {
		t.Errorf("BaseContentByPath(absent) = %v, want ErrNotFound", err)
	}
}

func TestDeleteLinkedEngineRefused(t *testing.T) {
	r := newTestRegistry(t)

	engine := &db.Engine{Path: "/ports/dsda-doom", Version: "0.27"}
	iwad := &db.BaseContent{Path: "/iwads/doom2.wad", ContentType: "doom2"}
	if err := r.AddEngine(engine); err != nil {
		t.Fatal(err)
	}
	if err := r.AddBaseContent(iwad); err != nil {
		t.Fatal(err)
	}
	profile := &db.Profile{Name: "speedrun", EngineID: engine.ID, BaseContentID: iwad.ID}
	if err := r.DB().Create(profile).Error; err != nil {
		t.Fatal(err)
	}

	if err := r.DeleteEngine(engine.ID); !errors.Is(err, ErrLinkedToProfile) {
		t.Fatalf("DeleteEngine(linked) = %v, want ErrLinkedToProfile", err)
	}

	if _, err := r.Engine(engine.ID); err != nil {
		t.Errorf("Engine should still exist after refused delete: %v", err)
	}
}

func TestDeleteEngineClearsSettingsRef(t *testing.T) {
	r := newTestRegistry(t)

	engine := &db.Engine{Path: "/ports/crispy-doom", Version: "5.12"}
	other := &db.Engine{Path: "/ports/woof", Version: "12.0"}
	if err := r.AddEngine(engine); err != nil {
		t.Fatal(err)
	}
	if err := r.AddEngine(other); err != nil {
		t.Fatal(err)
	}

	settings, err := r.Settings()
	if err != nil {
		t.Fatal(err)
	}
	settings.DefaultEngineID = &engine.ID
	if err := r.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	if err := r.DeleteEngine(engine.ID); err != nil {
		t.Fatalf("DeleteEngine() error: %v", err)
	}

	settings, err = r.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.DefaultEngineID != nil {
		t.Errorf("DefaultEngineID = %v, want nil after delete", *settings.DefaultEngineID)
	}

	// An unrelated delete must not touch other defaults.
	settings.DefaultEngineID = &other.ID
	if err := r.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := r.ClearSettingsRefs(RefEngine, engine.ID); err != nil {
		t.Fatal(err)
	}
	settings, _ = r.Settings()
	if settings.DefaultEngineID == nil || *settings.DefaultEngineID != other.ID {
		t.Error("ClearSettingsRefs cleared a reference to a different engine")
	}
}

func TestDeleteAddonLinkedByMapRefused(t *testing.T) {
	r := newTestRegistry(t)

	addon := &db.AddonContent{Path: "/maps/av.wad", Name: "av"}
	if err := r.AddAddonContent(addon); err != nil {
		t.Fatal(err)
	}
	m := &db.Map{Title: "Alien Vendetta", Author: "various", Path: "/maps/av.wad", AddonContentID: &addon.ID}
	if err := r.AddMap(m); err != nil {
		t.Fatal(err)
	}

	if err := r.DeleteAddonContent(addon.ID); !errors.Is(err, ErrLinkedToProfile) {
		t.Errorf("DeleteAddonContent(map-linked) = %v, want ErrLinkedToProfile", err)
	}

	if err := r.DeleteMap(m.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteAddonContent(addon.ID); err != nil {
		t.Errorf("DeleteAddonContent after map removed: %v", err)
	}
}

func TestAddMapDuplicatePath(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.AddMap(&db.Map{Title: "MAP01", Path: "/maps/map01/map01.wad"}); err != nil {
		t.Fatal(err)
	}
	err := r.AddMap(&db.Map{Title: "MAP01 again", Path: "/maps/MAP01/MAP01.WAD"})
	if !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("AddMap(duplicate) = %v, want ErrDuplicatePath", err)
	}
}

func TestReconcileEngines(t *testing.T) {
	r := newTestRegistry(t)

	keep := &db.Engine{Path: "/ports/gzdoom", Version: "4.10.0.0"}
	gone := &db.Engine{Path: "/ports/zandronum", Version: "3.1.0.0"}
	linked := &db.Engine{Path: "/ports/dsda-doom", Version: "0.27.0.0"}
	for _, e := range []*db.Engine{keep, gone, linked} {
		if err := r.AddEngine(e); err != nil {
			t.Fatal(err)
		}
	}
	iwad := &db.BaseContent{Path: "/iwads/doom2.wad"}
	if err := r.AddBaseContent(iwad); err != nil {
		t.Fatal(err)
	}
	if err := r.DB().Create(&db.Profile{Name: "keeper", EngineID: linked.ID, BaseContentID: iwad.ID}).Error; err != nil {
		t.Fatal(err)
	}

	report, err := r.ReconcileEngines([]DiscoveredEngine{
		{Path: "/ports/gzdoom", Version: "4.11.3.0", EngineType: "gzdoom"},
		{Path: "/ports/woof", Version: "12.0.0.0", EngineType: "woof"},
	})
	if err != nil {
		t.Fatalf("ReconcileEngines() error: %v", err)
	}

	if report.Added != 1 {
		t.Errorf("Added = %d, want 1", report.Added)
	}
	if report.Updated != 1 {
		t.Errorf("Updated = %d, want 1", report.Updated)
	}
	if report.Removed != 1 {
		t.Errorf("Removed = %d, want 1", report.Removed)
	}
	if len(report.Undeletable) != 1 || report.Undeletable[0] != "/ports/dsda-doom" {
		t.Errorf("Undeletable = %v, want the profile-linked engine", report.Undeletable)
	}

	updated, err := r.EngineByPath("/ports/gzdoom")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Version != "4.11.3.0" {
		t.Errorf("Version = %q, want 4.11.3.0", updated.Version)
	}
}

func TestReconcileBaseContentIdempotent(t *testing.T) {
	r := newTestRegistry(t)

	discovered := []DiscoveredContent{
		{Path: "/iwads/doom.wad", Tag: "doom"},
		{Path: "/iwads/doom2.wad", Tag: "doom2"},
	}

	for run := 0; run < 2; run++ {
		report, err := r.ReconcileBaseContent(discovered)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if run == 0 && report.Added != 2 {
			t.Errorf("first run Added = %d, want 2", report.Added)
		}
		if run == 1 && (report.Added != 0 || report.Removed != 0) {
			t.Errorf("second run should be a no-op, got %+v", report)
		}
	}

	rows, err := r.BaseContents()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 base content rows, got %d", len(rows))
	}
}
