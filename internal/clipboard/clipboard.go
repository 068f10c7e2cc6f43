// Package clipboard wraps OS clipboard access for yank and paste.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrNoSelection is returned when a copy is requested with nothing
// selected.
var ErrNoSelection = errors.New("nothing selected")

// Set writes text to the system clipboard.
func Set(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

// Get reads text from the system clipboard.
func Get() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard read: %w", err)
	}
	return text, nil
}
