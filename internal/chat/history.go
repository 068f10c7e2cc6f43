package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HistoryDir is the per-project directory holding conversation files.
const HistoryDir = ".rusty"

// History persists conversation markdown under HistoryDir.
// Daily files are named rusty_DD.MM.YYYY.md.
type History struct {
	dir string
	now func() time.Time
}

// NewHistory creates a history rooted at the given base directory.
func NewHistory(base string) *History {
	return &History{
		dir: filepath.Join(base, HistoryDir),
		now: time.Now,
	}
}

// Dir returns the history directory path.
func (h *History) Dir() string {
	return h.dir
}

// DailyFileName returns today's conversation file name.
func (h *History) DailyFileName() string {
	t := h.now()
	return fmt.Sprintf("rusty_%02d.%02d.%d.md", t.Day(), int(t.Month()), t.Year())
}

// DailyPath returns the full path of today's conversation file.
func (h *History) DailyPath() string {
	return filepath.Join(h.dir, h.DailyFileName())
}

// DefaultPath returns the scratch document opened at startup when no
// file argument is given.
func (h *History) DefaultPath() string {
	return filepath.Join(h.dir, "history.md")
}

// ensureDir creates the history directory if missing.
func (h *History) ensureDir() error {
	return os.MkdirAll(h.dir, 0o755)
}

// Save writes content to today's conversation file, creating the
// directory as needed.
func (h *History) Save(content string) error {
	if err := h.ensureDir(); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(h.DailyPath(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Append adds content to the end of today's conversation file.
func (h *History) Append(content string) error {
	if err := h.ensureDir(); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(h.DailyPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Load returns the content of today's conversation file.
// A missing file is not an error; it returns the empty string.
func (h *History) Load() (string, error) {
	return h.readFile(h.DailyPath())
}

// LoadDefault returns the content of the startup document at
// DefaultPath. A missing file is not an error; it returns the empty
// string.
func (h *History) LoadDefault() (string, error) {
	return h.readFile(h.DefaultPath())
}

func (h *History) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	return string(data), nil
}
