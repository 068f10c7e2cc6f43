package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// StateFile is the persisted editor state, kept beside the chat history.
const StateFile = ".rusty/state.json"

// State is the small slice of session state that survives restarts.
type State struct {
	LastFile    string
	LastBackend string
}

// LoadState reads persisted state from base/StateFile.
// Missing or malformed files yield the zero state.
func LoadState(base string) State {
	data, err := os.ReadFile(filepath.Join(base, StateFile))
	if err != nil {
		return State{}
	}

	return State{
		LastFile:    gjson.GetBytes(data, "last_file").String(),
		LastBackend: gjson.GetBytes(data, "last_backend").String(),
	}
}

// SaveState patches the state file in place, preserving any fields other
// tools may have added.
func SaveState(base string, st State) error {
	path := filepath.Join(base, StateFile)

	data, err := os.ReadFile(path)
	if err != nil {
		data = []byte("{}")
	}

	out, err := sjson.SetBytes(data, "last_file", st.LastFile)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	out, err = sjson.SetBytes(out, "last_backend", st.LastBackend)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
