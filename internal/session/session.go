// Package session tracks the per-user conversational mode of the bot.
package session

import "errors"

// Mode is the conversational mode a user selected from the menu.
type Mode string

const (
	// ModeNone indicates that the user has not selected a mode yet and the
	// bot is waiting for /start.
	ModeNone Mode = "none"
	// ModeCompletar indicates that the next text message is input for the
	// complete-arbitrage formula.
	ModeCompletar Mode = "completar"
	// ModeTotal indicates that the next text message is input for the
	// total-arbitrage formula.
	ModeTotal Mode = "total"
)

// ErrNotFound indicates that no session entry exists for a user.
var ErrNotFound = errors.New("session: not found")

var modeRecorder = func(from, to string) {}

// RegisterModeRecorder allows external packages to observe mode changes
// without importing this package's callers.
func RegisterModeRecorder(recorder func(from, to string)) {
	if recorder == nil {
		modeRecorder = func(string, string) {}
		return
	}

	modeRecorder = recorder
}
