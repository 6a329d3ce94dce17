package dexscript

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/foundation/utils/timex"
	"github.com/msto63/dexcomx/internal/models"
)

// TokenKind is the semantic kind of a classified token
type TokenKind int

const (
	KindDefault TokenKind = iota
	KindMethod
	KindClass
	KindModel
	KindDatetime
	KindBoolean
)

// String returns the kind name
func (k TokenKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindModel:
		return "model"
	case KindDatetime:
		return "datetime"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is one classified token. Payload holds the parsed form: a bool for
// booleans, a time.Time for datetimes, a *models.Model for models and the
// original string otherwise. Extra carries auxiliary data; for models it
// holds the display key.
type Value struct {
	Name    string
	Kind    TokenKind
	Payload interface{}
	Extra   []string
}

// String returns the display form
func (v Value) String() string {
	return v.Name
}

// Text returns the payload when it is a string and the name otherwise
func (v Value) Text() string {
	if s, ok := v.Payload.(string); ok {
		return s
	}
	return v.Name
}

// Bool returns the boolean payload, parsing the name for other kinds
func (v Value) Bool() (bool, error) {
	if b, ok := v.Payload.(bool); ok {
		return b, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.Name))
	if err != nil {
		return false, v.invalid("boolean")
	}
	return b, nil
}

// Time returns the datetime payload, parsing the name for other kinds
func (v Value) Time() (time.Time, error) {
	if t, ok := v.Payload.(time.Time); ok {
		return t, nil
	}
	t, err := timex.Parse(v.Name)
	if err != nil {
		return time.Time{}, v.invalid("date")
	}
	return t, nil
}

// Float parses the value as a number
func (v Value) Float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
	if err != nil {
		return 0, v.invalid("number")
	}
	return f, nil
}

// Int parses the value as an integer
func (v Value) Int() (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(v.Text()))
	if err != nil {
		return 0, v.invalid("integer")
	}
	return i, nil
}

// Model returns the model a Model token resolved to
func (v Value) Model() (*models.Model, error) {
	if m, ok := v.Payload.(*models.Model); ok && v.Kind == KindModel {
		return m, nil
	}
	return nil, mdwerror.New(fmt.Sprintf("'%s' is not a valid model", v.Name)).
		WithCode(mdwerror.CodeUnresolvedModel)
}

func (v Value) invalid(what string) error {
	return mdwerror.New(fmt.Sprintf("'%s' is not a valid %s", v.Name, what)).
		WithCode(mdwerror.CodeInvalidInput).
		WithDetail("kind", v.Kind.String())
}
