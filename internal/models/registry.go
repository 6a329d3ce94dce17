package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// Registry resolves models by name and validates record payloads
type Registry struct {
	mu       sync.RWMutex
	models   map[string]*Model
	order    []*Model
	reserved map[string]string
	schemas  map[string]*gojsonschema.Schema
}

// NewRegistry registers the given models. reserved names are known to the
// schema but cannot be resolved; see Known.
func NewRegistry(models []*Model, reserved ...string) (*Registry, error) {
	r := &Registry{
		models:   make(map[string]*Model, len(models)),
		reserved: make(map[string]string, len(reserved)),
		schemas:  make(map[string]*gojsonschema.Schema, len(models)),
	}

	for _, m := range models {
		key := strings.ToLower(m.Name)
		if _, dup := r.models[key]; dup {
			return nil, mdwerror.New(fmt.Sprintf("model %q registered twice", m.Name)).
				WithCode(mdwerror.CodeDuplicateEntry).
				WithOperation("models.NewRegistry")
		}
		if _, ok := m.Field(m.DisplayKey); !ok {
			return nil, mdwerror.New(fmt.Sprintf("model %q has no display field %q", m.Name, m.DisplayKey)).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("models.NewRegistry")
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(SchemaFor(m)))
		if err != nil {
			return nil, mdwerror.Wrap(err, fmt.Sprintf("invalid schema for model %q", m.Name)).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("models.NewRegistry")
		}

		r.models[key] = m
		r.schemas[key] = schema
		r.order = append(r.order, m)
	}

	for _, name := range reserved {
		r.reserved[strings.ToLower(name)] = name
	}
	return r, nil
}

// Default returns the registry of the bot's scriptable models
func Default() *Registry {
	r, err := NewRegistry([]*Model{Ball, Regime, Economy, Special, Player}, InternalTables...)
	if err != nil {
		panic(err)
	}
	return r
}

// Known reports whether folded names a model table, scriptable or not
func (r *Registry) Known(folded string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.models[folded]; ok {
		return true
	}
	_, ok := r.reserved[folded]
	return ok
}

// Lookup returns the scriptable model for an already case-folded name
func (r *Registry) Lookup(folded string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[folded]
	return m, ok
}

// Fetch resolves a model by name in any case
func (r *Registry) Fetch(name string) (*Model, error) {
	if m, ok := r.Lookup(strings.ToLower(strings.TrimSpace(name))); ok {
		return m, nil
	}
	return nil, mdwerror.New(fmt.Sprintf("'%s' is not a valid model", name)).
		WithCode(mdwerror.CodeUnresolvedModel).
		WithOperation("models.Fetch")
}

// All returns the scriptable models in registration order
func (r *Registry) All() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Model, len(r.order))
	copy(out, r.order)
	return out
}

// Validate checks a record payload against the model's JSON schema
func (r *Registry) Validate(m *Model, data map[string]interface{}) error {
	r.mu.RLock()
	schema, ok := r.schemas[strings.ToLower(m.Name)]
	r.mu.RUnlock()
	if !ok {
		return mdwerror.New(fmt.Sprintf("model %q is not registered", m.Name)).
			WithCode(mdwerror.CodeNotFound)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return mdwerror.Wrap(err, "schema validation failed").
			WithCode(mdwerror.CodeValidationFailed).
			WithDetail("model", m.Name)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	sort.Strings(problems)
	return mdwerror.New(fmt.Sprintf("invalid %s record: %s", m.Name, strings.Join(problems, "; "))).
		WithCode(mdwerror.CodeValidationFailed).
		WithDetail("model", m.Name).
		WithDetail("problems", len(problems))
}

// SchemaFor builds the JSON schema document for a model's record payload
func SchemaFor(m *Model) map[string]interface{} {
	properties := make(map[string]interface{}, len(m.Fields))
	required := []string{}

	for _, f := range m.Fields {
		prop := map[string]interface{}{}
		switch f.Type {
		case TypeTime:
			prop["type"] = "string"
			prop["format"] = "date-time"
		default:
			prop["type"] = string(f.Type)
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                m.Name,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// SchemaJSON renders the model's schema as indented JSON
func SchemaJSON(m *Model) (string, error) {
	data, err := json.MarshalIndent(SchemaFor(m), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
