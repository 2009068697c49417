package wad

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the classification of a content file.
type Kind int

const (
	// Neither means the file is not usable game content.
	Neither Kind = iota
	// Base is primary game data (IWAD).
	Base
	// Addon is supplementary content layered on top of base data (PWAD
	// or a non-WAD addon format).
	Addon
)

func (k Kind) String() string {
	switch k {
	case Base:
		return "base"
	case Addon:
		return "addon"
	default:
		return "neither"
	}
}

const (
	iwadMagic = "IWAD"
	pwadMagic = "PWAD"
)

// contentExtensions is the allow-list of game content file extensions.
// Only ".wad" carries a magic header; the rest are accepted as addon
// content on extension alone.
var contentExtensions = map[string]bool{
	".wad": true,
	".pk3": true,
	".pk7": true,
	".deh": true,
	".bex": true,
}

// EligibleExtension reports whether the path has an allow-listed content
// extension.
func EligibleExtension(path string) bool {
	return contentExtensions[strings.ToLower(filepath.Ext(path))]
}

// Classify inspects a file and reports whether it is base content, addon
// content, or neither. WAD files are sniffed by their 4-byte magic header;
// other allow-listed extensions are addon content without sniffing. An
// unreadable WAD file is an error, not Neither: bulk scan callers treat
// that as "skip this file", explicit callers surface it.
func Classify(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !contentExtensions[ext] {
		return Neither, nil
	}
	if ext != ".wad" {
		return Addon, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Neither, fmt.Errorf("failed to open %s for sniffing: %w", path, err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return Neither, fmt.Errorf("failed to read magic bytes of %s: %w", path, err)
	}

	switch string(magic) {
	case iwadMagic:
		return Base, nil
	case pwadMagic:
		return Addon, nil
	default:
		return Neither, nil
	}
}
