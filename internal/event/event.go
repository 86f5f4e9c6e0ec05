// Package event defines the decoded form of inbound platform updates.
//
// The update kind is decided exactly once, here, while decoding; downstream
// code switches on the tagged Event and never re-inspects the wire payload.
package event

import (
	"errors"
	"strings"

	telebot "gopkg.in/telebot.v3"
)

// Kind tags the variant carried by an Event.
type Kind string

const (
	// KindCommand is a text message starting with a slash command.
	KindCommand Kind = "command"
	// KindCallback is an inline keyboard button press.
	KindCallback Kind = "callback"
	// KindText is a plain text message.
	KindText Kind = "text"
)

// ErrUnsupportedUpdate indicates that an update carries no payload the bot
// knows how to handle (no sender, no text, unknown update shape).
var ErrUnsupportedUpdate = errors.New("event: unsupported update shape")

// Event is an inbound update decoded into a tagged union over
// {Command, Callback, Text}. Exactly the fields matching Kind are set.
type Event struct {
	UpdateID int
	Kind     Kind
	UserID   int64

	Command      string // command name including the leading slash
	CallbackID   string
	CallbackData string
	Text         string
}

// FromUpdate maps a platform update into an Event.
func FromUpdate(u telebot.Update) (Event, error) {
	switch {
	case u.Callback != nil:
		if u.Callback.Sender == nil {
			return Event{}, ErrUnsupportedUpdate
		}

		// Telebot prefixes unique-button callback data with "\f".
		data := strings.TrimSpace(strings.TrimPrefix(u.Callback.Data, "\f"))
		return Event{
			UpdateID:     u.ID,
			Kind:         KindCallback,
			UserID:       u.Callback.Sender.ID,
			CallbackID:   u.Callback.ID,
			CallbackData: data,
		}, nil

	case u.Message != nil:
		if u.Message.Sender == nil {
			return Event{}, ErrUnsupportedUpdate
		}

		text := strings.TrimSpace(u.Message.Text)
		if text == "" {
			return Event{}, ErrUnsupportedUpdate
		}

		if strings.HasPrefix(text, "/") {
			command := strings.Fields(text)[0]
			if at := strings.IndexByte(command, '@'); at > 0 {
				command = command[:at]
			}

			return Event{
				UpdateID: u.ID,
				Kind:     KindCommand,
				UserID:   u.Message.Sender.ID,
				Command:  command,
				Text:     text,
			}, nil
		}

		return Event{
			UpdateID: u.ID,
			Kind:     KindText,
			UserID:   u.Message.Sender.ID,
			Text:     text,
		}, nil

	default:
		return Event{}, ErrUnsupportedUpdate
	}
}
