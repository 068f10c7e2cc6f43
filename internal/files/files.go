// Package files provides the file access layer for the editor:
// loading, saving, and directory listing for the file picker.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ParentDir is the picker entry for ascending to the parent directory.
const ParentDir = ".."

// List returns the file and directory names in dir, each sorted.
// Hidden entries are included; the caller decides presentation.
func List(dir string) (files, dirs []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	sort.Strings(dirs)
	return files, dirs, nil
}

// Load reads the content of a file.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return string(data), nil
}

// Save writes content to a file, creating parent directories as needed.
func Save(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ChangeDir resolves a picker selection against the current directory.
// The ".." entry ascends to the parent.
func ChangeDir(current, name string) string {
	if name == ParentDir {
		return filepath.Dir(current)
	}
	return filepath.Join(current, name)
}
