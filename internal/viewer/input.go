package viewer

import "github.com/gdamore/tcell/v2"

// Action represents a user-requested viewer action.
type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionNewSeed
	ActionSwitchKind
	ActionToggleFog
	ActionToggleLine
	ActionTheme
	ActionHome
	ActionQuit
)

// keyToAction maps a tcell key event to a viewer action.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionUp
	case tcell.KeyDown:
		return ActionDown
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	}

	switch ev.Rune() {
	case 'k', 'K':
		return ActionUp
	case 'j', 'J':
		return ActionDown
	case 'l', 'L':
		return ActionRight
	case 'h', 'H':
		return ActionLeft
	case 'n', 'N':
		return ActionNewSeed
	case 'c', 'C':
		return ActionSwitchKind
	case 'f', 'F':
		return ActionToggleFog
	case 'v', 'V':
		return ActionToggleLine
	case 't', 'T':
		return ActionTheme
	case '@':
		return ActionHome
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// actionToDelta converts a movement action to (dx, dy).
func actionToDelta(a Action) (int, int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	}
	return 0, 0
}
