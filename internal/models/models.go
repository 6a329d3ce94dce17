// Package models describes the domain entities scripts operate on.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/foundation/utils/timex"
)

// FieldType is the JSON type a record field is stored as
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "integer"
	TypeFloat  FieldType = "number"
	TypeBool   FieldType = "boolean"
	TypeTime   FieldType = "datetime"
)

// Field declares one attribute of a model
type Field struct {
	Name     string
	Type     FieldType
	Default  interface{}
	Required bool
}

// Model is a domain entity type. DisplayKey names the field that
// identifies a record to operators, e.g. "country" for balls.
type Model struct {
	Name       string
	DisplayKey string
	Fields     []Field
}

// Field returns the named field, matched case-insensitively
func (m *Model) Field(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames lists the fields in declaration order
func (m *Model) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

// Defaults returns a record with every defaulted field filled in
func (m *Model) Defaults() map[string]interface{} {
	data := make(map[string]interface{}, len(m.Fields))
	for _, f := range m.Fields {
		if f.Default != nil {
			data[f.Name] = f.Default
		}
	}
	return data
}

// Coerce converts raw operator text into the field's stored representation
func (m *Model) Coerce(field, raw string) (interface{}, error) {
	f, ok := m.Field(field)
	if !ok {
		return nil, mdwerror.New(fmt.Sprintf("'%s' is not a field of '%s'", field, m.Name)).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("model", m.Name).
			WithDetail("field", field)
	}

	raw = strings.TrimSpace(raw)
	var (
		value interface{}
		err   error
	)
	switch f.Type {
	case TypeInt:
		value, err = strconv.Atoi(raw)
	case TypeFloat:
		value, err = strconv.ParseFloat(raw, 64)
	case TypeBool:
		value, err = strconv.ParseBool(raw)
	case TypeTime:
		var t time.Time
		t, err = timex.Parse(raw)
		value = t.UTC().Format(time.RFC3339)
	default:
		value = raw
	}
	if err != nil {
		return nil, mdwerror.New(fmt.Sprintf("'%s' is not a valid %s for '%s'", raw, f.Type, f.Name)).
			WithCode(mdwerror.CodeInvalidFormat).
			WithDetail("model", m.Name).
			WithDetail("field", f.Name)
	}
	return value, nil
}

// Ball is a collectible; records are identified by country
var Ball = &Model{
	Name:       "Ball",
	DisplayKey: "country",
	Fields: []Field{
		{Name: "country", Type: TypeString, Required: true},
		{Name: "short_name", Type: TypeString},
		{Name: "catch_names", Type: TypeString},
		{Name: "regime", Type: TypeString},
		{Name: "economy", Type: TypeString},
		{Name: "health", Type: TypeInt, Default: 0},
		{Name: "attack", Type: TypeInt, Default: 0},
		{Name: "rarity", Type: TypeFloat, Default: 1.0},
		{Name: "enabled", Type: TypeBool, Default: true},
		{Name: "tradeable", Type: TypeBool, Default: true},
		{Name: "emoji_id", Type: TypeInt},
		{Name: "wild_card", Type: TypeString},
		{Name: "collection_card", Type: TypeString},
		{Name: "credits", Type: TypeString},
		{Name: "capacity_name", Type: TypeString},
		{Name: "capacity_description", Type: TypeString},
		{Name: "created_at", Type: TypeTime},
	},
}

// Regime groups balls by political system
var Regime = &Model{
	Name:       "Regime",
	DisplayKey: "name",
	Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
		{Name: "background", Type: TypeString},
	},
}

// Economy groups balls by economic system
var Economy = &Model{
	Name:       "Economy",
	DisplayKey: "name",
	Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
		{Name: "icon", Type: TypeString},
	},
}

// Special is a time limited event card
var Special = &Model{
	Name:       "Special",
	DisplayKey: "name",
	Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
		{Name: "catch_phrase", Type: TypeString},
		{Name: "start_date", Type: TypeTime},
		{Name: "end_date", Type: TypeTime},
		{Name: "rarity", Type: TypeFloat, Default: 0.0},
		{Name: "emoji", Type: TypeString},
		{Name: "background", Type: TypeString},
		{Name: "hidden", Type: TypeBool, Default: false},
	},
}

// Player is a collector account, identified by its discord id
var Player = &Model{
	Name:       "Player",
	DisplayKey: "discord_id",
	Fields: []Field{
		{Name: "discord_id", Type: TypeString, Required: true},
		{Name: "donation_policy", Type: TypeInt, Default: 1},
		{Name: "privacy_policy", Type: TypeInt, Default: 1},
	},
}

// InternalTables are storage tables that exist in the bot's schema but
// carry no operator-facing identifier, so scripts cannot address them.
var InternalTables = []string{"BallInstance", "GuildConfig", "Trade", "TradeObject", "BlacklistedID"}
