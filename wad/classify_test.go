package wad

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestClassify(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  []byte
		expected Kind
	}{
		{"iwad magic", "DOOM2.WAD", []byte("IWADxxxxxxxx"), Base},
		{"pwad magic", "av.wad", []byte("PWADxxxxxxxx"), Addon},
		{"junk magic", "junk.wad", []byte("JUNKxxxxxxxx"), Neither},
		{"pk3 without sniffing", "brutal.pk3", []byte("PK\x03\x04junk"), Addon},
		{"dehacked patch", "fix.deh", []byte("Patch File"), Addon},
		{"non-content extension", "readme.txt", []byte("IWAD"), Neither},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.file, tt.content)
			kind, err := Classify(path)
			if err != nil {
				t.Fatalf("Classify(%s) error: %v", tt.file, err)
			}
			if kind != tt.expected {
				t.Errorf("Classify(%s) = %v, want %v", tt.file, kind, tt.expected)
			}
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		path := writeFile(t, tmpDir, "repeat.wad", []byte("PWADdata"))
		for i := 0; i < 3; i++ {
			kind, err := Classify(path)
			if err != nil || kind != Addon {
				t.Fatalf("Classify run %d = %v, %v; want Addon, nil", i, kind, err)
			}
		}
	})
}

func TestClassifyErrors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing wad file", func(t *testing.T) {
		_, err := Classify(filepath.Join(tmpDir, "absent.wad"))
		if err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("truncated wad file", func(t *testing.T) {
		path := writeFile(t, tmpDir, "short.wad", []byte("IW"))
		_, err := Classify(path)
		if err == nil {
			t.Error("Expected error for truncated magic")
		}
	})

	t.Run("missing non-wad file is not sniffed", func(t *testing.T) {
		kind, err := Classify(filepath.Join(tmpDir, "absent.pk3"))
		if err != nil {
			t.Fatalf("Classify error: %v", err)
		}
		if kind != Addon {
			t.Errorf("Classify = %v, want Addon", kind)
		}
	})
}

func TestEligibleExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"foo.wad", true},
		{"FOO.WAD", true},
		{"foo.pk3", true},
		{"foo.bex", true},
		{"foo.txt", false},
		{"foo", false},
	}
	for _, tt := range tests {
		if got := EligibleExtension(tt.path); got != tt.expected {
			t.Errorf("EligibleExtension(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
