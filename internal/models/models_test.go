package models

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	tests := []struct {
		folded     string
		known      bool
		resolvable bool
		displayKey string
	}{
		{"ball", true, true, "country"},
		{"regime", true, true, "name"},
		{"economy", true, true, "name"},
		{"special", true, true, "name"},
		{"player", true, true, "discord_id"},
		{"ballinstance", true, false, ""},
		{"Ball", false, false, ""},
		{"country", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.folded, func(t *testing.T) {
			if got := r.Known(tt.folded); got != tt.known {
				t.Errorf("Known(%q) = %v, want %v", tt.folded, got, tt.known)
			}
			m, ok := r.Lookup(tt.folded)
			if ok != tt.resolvable {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.folded, ok, tt.resolvable)
			}
			if ok && m.DisplayKey != tt.displayKey {
				t.Errorf("DisplayKey = %q, want %q", m.DisplayKey, tt.displayKey)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	r := Default()

	m, err := r.Fetch(" REGIME ")
	if err != nil || m != Regime {
		t.Fatalf("Fetch(REGIME) = %v, %v", m, err)
	}

	_, err = r.Fetch("BallInstance")
	if err == nil || err.Error() != "'BallInstance' is not a valid model" {
		t.Errorf("Fetch(BallInstance) error = %v", err)
	}
	if !mdwerror.HasCode(err, mdwerror.CodeUnresolvedModel) {
		t.Errorf("error code = %v", mdwerror.GetCode(err))
	}
}

func TestAllKeepsOrder(t *testing.T) {
	var names []string
	for _, m := range Default().All() {
		names = append(names, m.Name)
	}
	want := []string{"Ball", "Regime", "Economy", "Special", "Player"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRegistryRejectsBadModels(t *testing.T) {
	tests := []struct {
		name   string
		models []*Model
		code   mdwerror.Code
	}{
		{"duplicate", []*Model{Ball, {Name: "BALL", DisplayKey: "x", Fields: []Field{{Name: "x", Type: TypeString}}}}, mdwerror.CodeDuplicateEntry},
		{"missing display field", []*Model{{Name: "Card", DisplayKey: "title"}}, mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.models)
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("NewRegistry() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		model   *Model
		data    map[string]interface{}
		wantErr string
	}{
		{"valid ball", Ball, map[string]interface{}{"country": "Germany", "rarity": 2.5, "health": 10, "enabled": true}, ""},
		{"missing display key", Ball, map[string]interface{}{"rarity": 1.0}, "country"},
		{"wrong type", Ball, map[string]interface{}{"country": "France", "health": "lots"}, "health"},
		{"unknown field", Regime, map[string]interface{}{"name": "Democracy", "colour": "blue"}, "colour"},
		{"bad timestamp", Special, map[string]interface{}{"name": "Xmas", "start_date": "soon"}, "start_date"},
		{"good timestamp", Special, map[string]interface{}{"name": "Xmas", "start_date": "2025-12-24T00:00:00Z"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.model, tt.data)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !mdwerror.HasCode(err, mdwerror.CodeValidationFailed) {
				t.Errorf("error code = %v", mdwerror.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		model   *Model
		field   string
		raw     string
		want    interface{}
		wantErr bool
	}{
		{"int", Ball, "health", " 42 ", 42, false},
		{"float", Ball, "rarity", "0.75", 0.75, false},
		{"bool", Ball, "enabled", "FALSE", false, false},
		{"string", Regime, "background", "bg.png", "bg.png", false},
		{"time", Special, "start_date", "2025-12-24", "2025-12-24T00:00:00Z", false},
		{"case-insensitive field", Ball, "Rarity", "3", 3.0, false},
		{"bad int", Ball, "attack", "strong", nil, true},
		{"unknown field", Ball, "colour", "red", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.model.Coerce(tt.field, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Coerce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Coerce() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDefaultsAndSchemaJSON(t *testing.T) {
	d := Ball.Defaults()
	if d["enabled"] != true || d["rarity"] != 1.0 {
		t.Errorf("Defaults() = %v", d)
	}
	if _, ok := d["country"]; ok {
		t.Error("display key should have no default")
	}

	s, err := SchemaJSON(Economy)
	if err != nil {
		t.Fatalf("SchemaJSON() error = %v", err)
	}
	if !strings.Contains(s, `"title": "Economy"`) || !strings.Contains(s, `"required"`) {
		t.Errorf("unexpected schema: %s", s)
	}
}
