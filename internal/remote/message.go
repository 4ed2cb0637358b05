package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/tutor"
)

// Message types.
const (
	TypePress = "press"
	TypeEvent = "event"
	TypeError = "error"
)

// ErrInvalidMessage is returned for a client message that does not match
// the message schema or names an unknown key.
var ErrInvalidMessage = errors.New("invalid message")

const messageSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "type": { "const": "press" },
    "key":  { "type": "string", "minLength": 1, "maxLength": 16 }
  },
  "required": ["type", "key"],
  "additionalProperties": false
}`

var pressSchema = jsonschema.MustCompileString("press.schema.json", messageSchema)

// Press asks the keyboard to press a key as if it was clicked.
type Press struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Event describes an accepted key press and the resulting field.
type Event struct {
	Type      string `json:"type"`
	Key       string `json:"key"`
	Source    string `json:"source"`
	Text      string `json:"text"`
	Caret     int    `json:"caret"`
	Uppercase bool   `json:"uppercase"`
	TutorMode bool   `json:"tutor_mode"`
}

// ErrorReply reports a rejected message back to the client.
type ErrorReply struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// NewPress builds a press message.
func NewPress(key keyboard.KeyID) Press {
	return Press{Type: TypePress, Key: string(key)}
}

// NewEvent describes a session event.
func NewEvent(ev tutor.Event) Event {
	return Event{
		Type:      TypeEvent,
		Key:       string(ev.Key),
		Source:    ev.Source.String(),
		Text:      ev.State.Text,
		Caret:     ev.State.Caret,
		Uppercase: ev.State.EffectiveUppercase(),
		TutorMode: ev.State.TutorModeActive,
	}
}

// DecodePress validates a client message and returns the key it names.
func DecodePress(data []byte) (keyboard.KeyID, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := pressSchema.Validate(doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	var p Press
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	key, ok := keyboard.ParseKey(p.Key)
	if !ok {
		return "", fmt.Errorf("%w: unknown key %q", ErrInvalidMessage, p.Key)
	}
	return key, nil
}
