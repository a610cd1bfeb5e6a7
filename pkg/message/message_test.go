package message

import (
	"strings"
	"testing"

	"github.com/meridianmq/mqselect/pkg/types"
)

func TestNew(t *testing.T) {
	m := New("orders")
	if m.ID == "" {
		t.Error("New must assign an id")
	}
	if m.Subject != "orders" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if m.Created.IsZero() {
		t.Error("Created must be set")
	}
	m.SetProperty("k", types.NewExact(1))
	if !m.HasProperty("k") {
		t.Error("HasProperty after SetProperty = false")
	}
	if !m.Property("k").Equal(types.NewExact(1)) {
		t.Errorf("Property = %v", m.Property("k"))
	}
	if !m.Property("missing").IsUnknown() {
		t.Error("absent property must read as Unknown")
	}
}

func TestFromJSON(t *testing.T) {
	doc := `{
		"subject": "orders",
		"body": "payload",
		"properties": {
			"count": 42,
			"weight": 2.5,
			"big": 1e3,
			"neg": -3,
			"region": "EU",
			"express": true,
			"slot": null
		}
	}`
	m, err := FromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if m.Subject != "orders" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if string(m.Body) != "payload" {
		t.Errorf("Body = %q", m.Body)
	}

	tests := []struct {
		name string
		want types.Value
	}{
		{"count", types.NewExact(42)},
		{"weight", types.NewInexact(2.5)},
		{"big", types.NewInexact(1000)},
		{"neg", types.NewInexact(-3)},
		{"region", types.NewString("EU")},
		{"express", types.NewBool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Property(tt.name)
			if got.Type() != tt.want.Type() || !got.Equal(tt.want) {
				t.Errorf("property %s = %s %v, want %s %v",
					tt.name, got.Type(), got, tt.want.Type(), tt.want)
			}
		})
	}

	if !m.HasProperty("slot") {
		t.Error("null property must still be present")
	}
	if !m.Property("slot").IsUnknown() {
		t.Errorf("null property = %v, want Unknown", m.Property("slot"))
	}
}

func TestFromJSONKeepsID(t *testing.T) {
	m, err := FromJSON([]byte(`{"id": "msg-1", "subject": "s"}`))
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != "msg-1" {
		t.Errorf("ID = %q, want msg-1", m.ID)
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{"malformed", `{"subject":`, "malformed message document"},
		{"non-object", `[1, 2]`, "must be an object"},
		{"properties not object", `{"properties": 7}`, "properties must be an object"},
		{"array property", `{"properties": {"tags": [1, 2]}}`, "unsupported property type"},
		{"object property", `{"properties": {"nested": {"a": 1}}}`, "unsupported property type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.doc))
			if err == nil {
				t.Fatalf("FromJSON(%s) succeeded, want error", tt.doc)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
