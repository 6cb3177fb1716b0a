package connector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInputNotFound is returned when a required input file is missing or
// auto-discovery does not find exactly one candidate.
var ErrInputNotFound = errors.New("input not found")

// Discover returns the single regular file in dir whose name ends in ext,
// ignoring names that end in any of exclude.
func Discover(dir, ext string, exclude ...string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("discover: %w", err)
	}

	var found []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ext) || hasAnySuffix(name, exclude) {
			continue
		}
		found = append(found, name)
	}
	sort.Strings(found)

	switch len(found) {
	case 0:
		return "", fmt.Errorf("discover: no *%s file in %s: %w", ext, dir, ErrInputNotFound)
	case 1:
		return filepath.Join(dir, found[0]), nil
	default:
		return "", fmt.Errorf("discover: %d *%s files in %s (%s), pass one explicitly: %w",
			len(found), ext, dir, strings.Join(found, ", "), ErrInputNotFound)
	}
}

// RequireFile returns ErrInputNotFound unless path names an existing regular file.
func RequireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrInputNotFound)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrInputNotFound)
	}
	return nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(s)) {
			return true
		}
	}
	return false
}
