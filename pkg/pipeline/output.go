package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputFilename derives the image filename for a group: the selection
// prefix is stripped, surrounding whitespace trimmed, inner spaces become
// underscores, and the result gets the .png extension.
func OutputFilename(groupName, prefix string) string {
	name := strings.TrimPrefix(groupName, prefix)
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".png"
}

// OverwriteMode decides what happens when an output file already exists
type OverwriteMode int

const (
	// Overwrite replaces the existing file
	Overwrite OverwriteMode = iota
	// Skip leaves the existing file and skips the group
	Skip
	// Increment writes to the next free _NNN-numbered name
	Increment
)

func (m OverwriteMode) String() string {
	switch m {
	case Skip:
		return "skip"
	case Increment:
		return "increment"
	default:
		return "overwrite"
	}
}

// ParseOverwriteMode maps a config string to a mode
func ParseOverwriteMode(s string) (OverwriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite":
		return Overwrite, nil
	case "skip":
		return Skip, nil
	case "increment":
		return Increment, nil
	}
	return Overwrite, fmt.Errorf("unknown overwrite mode %q (want overwrite, skip, or increment)", s)
}

// ResolvePath applies the overwrite policy to the wanted output path.
// Returns the path to write and whether the group should be skipped
// instead.
func ResolvePath(path string, mode OverwriteMode) (string, bool) {
	switch mode {
	case Skip:
		if fileExists(path) {
			return path, true
		}
		return path, false

	case Increment:
		if !fileExists(path) {
			return path, false
		}
		ext := filepath.Ext(path)
		stem := strings.TrimSuffix(path, ext)
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s_%03d%s", stem, n, ext)
			if !fileExists(candidate) {
				return candidate, false
			}
		}

	default:
		return path, false
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureOutputDir creates the output folder when it is missing
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
