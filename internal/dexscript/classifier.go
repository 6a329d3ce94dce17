package dexscript

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/foundation/utils/stringx"
	"github.com/msto63/dexcomx/foundation/utils/timex"
	"github.com/msto63/dexcomx/internal/models"
)

// ModelRegistry resolves domain models by case-folded name. Known covers
// every model table; Lookup only the ones a script may address.
type ModelRegistry interface {
	Known(folded string) bool
	Lookup(folded string) (*models.Model, bool)
}

// Classifier turns raw tokens into Values
type Classifier struct {
	ns     *Namespace
	models ModelRegistry
}

// NewClassifier creates a classifier; reg may be nil
func NewClassifier(ns *Namespace, reg ModelRegistry) *Classifier {
	return &Classifier{ns: ns, models: reg}
}

// Classify decides the kind of token. The first matching kind wins:
// method, class, model, datetime, boolean, default.
func (c *Classifier) Classify(token string) (Value, error) {
	norm := NormalizeToken(token)

	switch {
	case c.ns.isGlobal(norm):
		return Value{Name: token, Kind: KindMethod, Payload: token}, nil

	case c.ns.isClass(norm):
		return Value{Name: token, Kind: KindClass, Payload: token}, nil

	case c.models != nil && c.models.Known(strings.ToLower(token)):
		m, ok := c.models.Lookup(strings.ToLower(token))
		if !ok {
			return Value{}, mdwerror.New(fmt.Sprintf("'%s' is not a valid model", token)).
				WithCode(mdwerror.CodeUnresolvedModel).
				WithOperation("dexscript.Classify").
				WithDetail("token", token)
		}
		return Value{Name: m.Name, Kind: KindModel, Payload: m, Extra: []string{m.DisplayKey}}, nil

	case stringx.CountRune(token, '-') >= 2 && timex.IsDate(token):
		t, _ := timex.Parse(token)
		return Value{Name: token, Kind: KindDatetime, Payload: t}, nil

	case strings.EqualFold(token, "true"), strings.EqualFold(token, "false"):
		return Value{Name: token, Kind: KindBoolean, Payload: strings.EqualFold(token, "true")}, nil

	default:
		return Value{Name: token, Kind: KindDefault, Payload: token}, nil
	}
}

// ClassifyLine classifies every token of one line
func (c *Classifier) ClassifyLine(tokens []string) ([]Value, error) {
	values := make([]Value, 0, len(tokens))
	for _, tok := range tokens {
		v, err := c.Classify(tok)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
