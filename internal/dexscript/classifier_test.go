package dexscript

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/internal/models"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(newTestNamespace(t), models.Default())

	tests := []struct {
		token string
		want  Value
	}{
		{"ls", Value{Name: "ls", Kind: KindDefault, Payload: "ls"}},
		{"List-Dir", Value{Name: "List-Dir", Kind: KindMethod, Payload: "List-Dir"}},
		{"view", Value{Name: "view", Kind: KindMethod, Payload: "view"}},
		{"BALL", Value{Name: "BALL", Kind: KindClass, Payload: "BALL"}},
		{"economy", Value{Name: "Economy", Kind: KindModel, Payload: models.Economy, Extra: []string{"name"}}},
		{"Player", Value{Name: "Player", Kind: KindModel, Payload: models.Player, Extra: []string{"discord_id"}}},
		{"2024-01-05", Value{Name: "2024-01-05", Kind: KindDatetime, Payload: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}},
		{"05-Jan-2024", Value{Name: "05-Jan-2024", Kind: KindDatetime, Payload: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}},
		{"05-06-2024", Value{Name: "05-06-2024", Kind: KindDatetime, Payload: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)}},
		{"02-01-2006", Value{Name: "02-01-2006", Kind: KindDatetime, Payload: time.Date(2006, 2, 1, 0, 0, 0, 0, time.UTC)}},
		{"13-01-2024", Value{Name: "13-01-2024", Kind: KindDatetime, Payload: time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)}},
		{"20240105", Value{Name: "20240105", Kind: KindDefault, Payload: "20240105"}},
		{"1-2", Value{Name: "1-2", Kind: KindDefault, Payload: "1-2"}},
		{"True", Value{Name: "True", Kind: KindBoolean, Payload: true}},
		{"false", Value{Name: "false", Kind: KindBoolean, Payload: false}},
		{"Germany", Value{Name: "Germany", Kind: KindDefault, Payload: "Germany"}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := c.Classify(tt.token)
			if err != nil {
				t.Fatalf("Classify(%q) error = %v", tt.token, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.token, diff)
			}
		})
	}
}

func TestClassifyMethodBeatsModel(t *testing.T) {
	noop := func(ctx context.Context, inst Instance, args []Value) error { return nil }
	factory := func(rt Runtime, shared *Shared) (Instance, error) { return nil, nil }

	ns, err := NewNamespace(&Class{
		Name:    "Global",
		Global:  true,
		New:     factory,
		Methods: map[string]*Method{"special": {Name: "special", Call: noop}},
	})
	if err != nil {
		t.Fatal(err)
	}

	v, err := NewClassifier(ns, models.Default()).Classify("Special")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindMethod {
		t.Errorf("Kind = %v, want method", v.Kind)
	}
}

func TestClassifyUnresolvedModel(t *testing.T) {
	c := NewClassifier(newTestNamespace(t), models.Default())

	_, err := c.Classify("Trade")
	if !mdwerror.HasCode(err, mdwerror.CodeUnresolvedModel) {
		t.Fatalf("Classify(Trade) error = %v, want UNRESOLVED_MODEL", err)
	}
	if err.Error() != "'Trade' is not a valid model" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClassifyWithoutModels(t *testing.T) {
	v, err := NewClassifier(newTestNamespace(t), nil).Classify("Economy")
	if err != nil || v.Kind != KindDefault {
		t.Errorf("Classify(Economy) = %v, %v; want default", v.Kind, err)
	}
}
