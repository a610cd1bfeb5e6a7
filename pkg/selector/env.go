package selector

import (
	"github.com/meridianmq/mqselect/pkg/message"
	"github.com/meridianmq/mqselect/pkg/types"
)

// SelectorEnv supplies property values during evaluation. Absent
// properties evaluate to the unknown value.
type SelectorEnv interface {
	// Present reports whether the named property exists.
	Present(name string) bool
	// Value returns the named property's value. Implementations may
	// return Unknown for absent names; the evaluator checks Present first.
	Value(name string) types.Value
}

// MapEnv is a plain map environment.
type MapEnv map[string]types.Value

// Present implements SelectorEnv.
func (m MapEnv) Present(name string) bool {
	_, ok := m[name]
	return ok
}

// Value implements SelectorEnv.
func (m MapEnv) Value(name string) types.Value {
	return m[name]
}

// MessageSelectorEnv exposes a message's typed properties to the
// evaluator.
type MessageSelectorEnv struct {
	Msg *message.Message
}

// Present implements SelectorEnv.
func (e MessageSelectorEnv) Present(name string) bool {
	return e.Msg.HasProperty(name)
}

// Value implements SelectorEnv.
func (e MessageSelectorEnv) Value(name string) types.Value {
	return e.Msg.Property(name)
}

// StringEnv wraps an environment so every present property reads as a
// string, for hosts whose property stores are untyped text. A present
// property whose value is Unknown still reads as Unknown.
type StringEnv struct {
	Inner SelectorEnv
}

// Present implements SelectorEnv.
func (e StringEnv) Present(name string) bool {
	return e.Inner.Present(name)
}

// Value implements SelectorEnv.
func (e StringEnv) Value(name string) types.Value {
	if !e.Inner.Present(name) {
		return types.Unknown
	}
	v := e.Inner.Value(name)
	if v.IsUnknown() {
		return v
	}
	return types.NewString(v.String())
}
