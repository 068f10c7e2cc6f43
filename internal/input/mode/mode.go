// Package mode defines the modal command state machine's states:
// the editing mode, the transient menu overlay, and the file picker
// sub-states with their own input handling.
package mode

// Mode is the primary editing mode.
type Mode uint8

const (
	Normal Mode = iota
	Insert
	Select
)

// String returns the mode's status line display name.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "INSERT"
	case Select:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// MenuState is the transient sub-menu overlay, orthogonal to Mode.
// At most one menu is active at a time. Plain menus consume exactly the
// next keystroke and reset to MenuInactive; the picker states persist
// until confirmed or cancelled.
type MenuState uint8

const (
	MenuInactive MenuState = iota
	MenuGoTo
	MenuFile
	MenuAI
	MenuPickLoad
	MenuPickSave
)

// String returns the menu's name.
func (m MenuState) String() string {
	switch m {
	case MenuInactive:
		return "inactive"
	case MenuGoTo:
		return "goto"
	case MenuFile:
		return "file"
	case MenuAI:
		return "ai"
	case MenuPickLoad:
		return "pick-load"
	case MenuPickSave:
		return "pick-save"
	default:
		return "unknown"
	}
}

// IsPicker returns true for the multi-keystroke picker states.
func (m MenuState) IsPicker() bool {
	return m == MenuPickLoad || m == MenuPickSave
}

// Active returns true if any menu is open.
func (m MenuState) Active() bool {
	return m != MenuInactive
}
