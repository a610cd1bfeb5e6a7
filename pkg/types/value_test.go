package types

import (
	"testing"
)

func TestValueConstructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		typ  ValueType
	}{
		{"unknown", Unknown, TypeUnknown},
		{"bool", NewBool(true), TypeBool},
		{"exact", NewExact(42), TypeExact},
		{"inexact", NewInexact(2.5), TypeInexact},
		{"string", NewString("hi"), TypeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", tt.v.Type(), tt.typ)
			}
		})
	}
	if !Unknown.IsUnknown() {
		t.Error("Unknown.IsUnknown() = false")
	}
	var zero Value
	if !zero.IsUnknown() {
		t.Error("zero Value must be Unknown")
	}
}

func TestValueAccessors(t *testing.T) {
	if got := NewBool(true).AsBool(); !got {
		t.Errorf("AsBool() = %v", got)
	}
	if got := NewExact(42).AsExact(); got != 42 {
		t.Errorf("AsExact() = %d", got)
	}
	if got := NewInexact(2.5).AsInexact(); got != 2.5 {
		t.Errorf("AsInexact() = %v", got)
	}
	if got := NewString("hi").AsString(); got != "hi" {
		t.Errorf("AsString() = %q", got)
	}
}

func TestValueAccessorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AsBool on a string value must panic")
		}
	}()
	NewString("no").AsBool()
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"exact", NewExact(7), 7, true},
		{"inexact", NewInexact(2.5), 2.5, true},
		{"string", NewString("7"), 0, false},
		{"bool", NewBool(true), 0, false},
		{"unknown", Unknown, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.AsNumber()
			if got != tt.want || ok != tt.ok {
				t.Errorf("AsNumber() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"exact-exact", NewExact(1), NewExact(1), true},
		{"exact-inexact promoted", NewExact(1), NewInexact(1.0), true},
		{"inexact-exact promoted", NewInexact(2.0), NewExact(2), true},
		{"exact mismatch", NewExact(1), NewInexact(1.5), false},
		{"string", NewString("a"), NewString("a"), true},
		{"string mismatch", NewString("a"), NewString("b"), false},
		{"bool", NewBool(true), NewBool(true), true},
		{"unknown-unknown", Unknown, Unknown, true},
		{"cross kind", NewString("1"), NewExact(1), false},
		{"unknown-number", Unknown, NewExact(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Unknown, "unknown"},
		{NewBool(false), "false"},
		{NewExact(42), "42"},
		{NewInexact(2.5), "2.5"},
		{NewString("hi"), "hi"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Unknown, "null"},
		{NewBool(true), "true"},
		{NewExact(42), "42"},
		{NewInexact(2.5), "2.5"},
		{NewString("hi"), `"hi"`},
	}
	for _, tt := range tests {
		got, err := tt.v.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%s): %v", tt.v, err)
		}
		if string(got) != tt.want {
			t.Errorf("MarshalJSON(%s) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestSelectorError(t *testing.T) {
	err := NewParseError("unexpected 'and'", 13)
	if err.Error() != "unexpected 'and' at position 13" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !err.HasTag(TagParseError) || err.HasTag(TagLexError) {
		t.Errorf("tags = %v", err.Tags)
	}
	lex := NewLexError("unterminated string literal", 4)
	if !lex.HasTag(TagLexError) {
		t.Errorf("tags = %v", lex.Tags)
	}
}
