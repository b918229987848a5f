// Package jsonline holds the decoding rule shared by every adapter's stream
// variant (spec §6 "Stream protocols"): a line that parses as JSON and
// carries a recognized discriminator becomes a typed StreamEvent; a line
// that parses as JSON but carries no recognized discriminator becomes
// Unknown; a line that fails to parse at all becomes Text.
package jsonline

import (
	"encoding/json"

	"github.com/extractcli/extractcli/pkg/supervisor"
)

// Discriminator classifies one decoded JSON object by its "type" field (or
// equivalent) into a StreamEvent. It returns false if the object carries no
// type this adapter recognizes, signaling the caller to fall back to
// Unknown.
type Discriminator func(raw map[string]any, stream, line string) (supervisor.StreamEvent, bool)

// Decode applies d to line, implementing the three-way fallback the spec
// requires. Adapters wire this into supervisor.LineDecoder via a small
// closure binding their own Discriminator.
func Decode(d Discriminator, stream, line string) supervisor.StreamEvent {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return supervisor.NewTextEvent(stream, line)
	}
	if ev, ok := d(raw, stream, line); ok {
		return ev
	}
	return supervisor.NewUnknownEvent(stream, line)
}

// StringField reads a string-typed key from a decoded JSON object, returning
// "" if absent or not a string.
func StringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// MapField reads a map-typed key, returning an empty map if absent or not an
// object.
func MapField(raw map[string]any, key string) map[string]any {
	v, ok := raw[key]
	if !ok {
		return map[string]any{}
	}
	m, _ := v.(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

// BoolField reads a bool-typed key, defaulting to false.
func BoolField(raw map[string]any, key string) bool {
	v, ok := raw[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
