package selector

import (
	"strings"

	"github.com/meridianmq/mqselect/pkg/message"
)

// Selector is a compiled selector expression. Compile once, evaluate
// against any number of environments from any goroutine.
type Selector struct {
	source string
	root   BoolExpr
}

// Compile parses selector source into a Selector. Errors are
// *types.SelectorError values tagged LexError or ParseError.
func Compile(source string) (*Selector, error) {
	root, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &Selector{source: source, root: root}, nil
}

// CompileOrNil compiles the source, mapping empty (or all-whitespace)
// source to a nil selector. A nil *Selector accepts every message, so
// callers can hold an optional selector without branching.
func CompileOrNil(source string) (*Selector, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}
	return Compile(source)
}

// Source returns the source the selector was compiled from.
func (s *Selector) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Eval evaluates the selector against an environment. A nil selector
// evaluates to true.
func (s *Selector) Eval(env SelectorEnv) bool {
	if s == nil {
		return true
	}
	return evalBool(s.root, env)
}

// Filter reports whether the selector accepts the message.
func (s *Selector) Filter(m *message.Message) bool {
	if s == nil {
		return true
	}
	return s.Eval(MessageSelectorEnv{Msg: m})
}
