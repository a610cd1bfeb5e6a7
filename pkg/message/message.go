// Package message defines the broker message carried through matching.
package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"

	"github.com/meridianmq/mqselect/pkg/types"
)

// Message is a broker message: an id, a subject, typed application
// properties and an opaque body.
type Message struct {
	ID         string
	Subject    string
	Properties map[string]types.Value
	Body       []byte
	Created    time.Time
}

// New creates an empty message with a generated id.
func New(subject string) *Message {
	return &Message{
		ID:         uuid.NewString(),
		Subject:    subject,
		Properties: make(map[string]types.Value),
		Created:    time.Now().UTC(),
	}
}

// SetProperty sets an application property.
func (m *Message) SetProperty(name string, v types.Value) {
	m.Properties[name] = v
}

// HasProperty reports whether the named property is set.
func (m *Message) HasProperty(name string) bool {
	_, ok := m.Properties[name]
	return ok
}

// Property returns the named property, or Unknown when absent.
func (m *Message) Property(name string) types.Value {
	return m.Properties[name]
}

var jsonParsers fastjson.ParserPool

// FromJSON builds a message from a JSON document of the shape
//
//	{"subject": "...", "body": "...", "properties": {"k": v, ...}}
//
// Property values must be JSON scalars. Non-negative numbers with an
// integral lexeme that fit in a uint64 become exact numerics; all others
// (fractions, exponents, negatives, larger integers) become inexact, which
// keeps the distinction a float64-only decoder would collapse.
func FromJSON(data []byte) (*Message, error) {
	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	doc, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("malformed message document: %w", err)
	}
	obj, err := doc.Object()
	if err != nil {
		return nil, fmt.Errorf("message document must be an object: %w", err)
	}

	m := New(string(doc.GetStringBytes("subject")))
	if body := doc.GetStringBytes("body"); body != nil {
		m.Body = append([]byte(nil), body...)
	}
	if id := doc.GetStringBytes("id"); len(id) > 0 {
		m.ID = string(id)
	}

	var propErr error
	obj.Visit(func(key []byte, v *fastjson.Value) {
		if string(key) != "properties" || propErr != nil {
			return
		}
		props, err := v.Object()
		if err != nil {
			propErr = fmt.Errorf("properties must be an object: %w", err)
			return
		}
		props.Visit(func(name []byte, pv *fastjson.Value) {
			if propErr != nil {
				return
			}
			val, err := propertyValue(pv)
			if err != nil {
				propErr = fmt.Errorf("property %q: %w", name, err)
				return
			}
			m.Properties[string(name)] = val
		})
	})
	if propErr != nil {
		return nil, propErr
	}
	return m, nil
}

// propertyValue converts a JSON scalar into a typed value.
func propertyValue(v *fastjson.Value) (types.Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return types.Unknown, nil
	case fastjson.TypeTrue:
		return types.NewBool(true), nil
	case fastjson.TypeFalse:
		return types.NewBool(false), nil
	case fastjson.TypeString:
		sb, _ := v.StringBytes()
		return types.NewString(string(sb)), nil
	case fastjson.TypeNumber:
		lexeme := v.String()
		if !strings.ContainsAny(lexeme, ".eE-") {
			if n, err := v.Uint64(); err == nil {
				return types.NewExact(n), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return types.Unknown, fmt.Errorf("unusable numeric value %s", lexeme)
		}
		return types.NewInexact(f), nil
	default:
		return types.Unknown, fmt.Errorf("unsupported property type %s", v.Type())
	}
}
