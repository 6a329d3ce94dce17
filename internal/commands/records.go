package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
	"github.com/msto63/dexcomx/internal/store"
)

// The record operations shared by the global methods and the per-model
// classes.

func (c *command) create(ctx context.Context, m *models.Model, name string, pairs []dexscript.Value) error {
	if len(pairs)%2 != 0 {
		return mdwerror.New(fmt.Sprintf("field '%s' has no value", pairs[len(pairs)-1].Name)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("commands.create")
	}

	data := m.Defaults()
	data[m.DisplayKey] = name
	for i := 0; i < len(pairs); i += 2 {
		field, value, err := c.coerce(m, pairs[i], pairs[i+1])
		if err != nil {
			return err
		}
		data[field] = value
	}

	if err := c.rt.Models.Validate(m, data); err != nil {
		return err
	}
	if _, err := c.rt.Store.Create(ctx, m.Name, name, data); err != nil {
		return err
	}

	c.log.Info("record created", mdwlog.Fields{"model": m.Name, "name": name})
	c.printf("Created %s '%s'.", m.Name, name)
	return nil
}

func (c *command) update(ctx context.Context, m *models.Model, name string, fieldTok, valueTok dexscript.Value) error {
	field, value, err := c.coerce(m, fieldTok, valueTok)
	if err != nil {
		return err
	}

	rec, err := c.set(ctx, m, name, field, value)
	if err != nil {
		return err
	}

	c.log.Info("record updated", mdwlog.Fields{"model": m.Name, "name": name, "field": field})
	c.printf("Updated %s '%s': %s = %v.", m.Name, strings.TrimSpace(name), field, rec.Data[field])
	return nil
}

// set validates the record with field changed and writes it. Changing the
// display key renames the record.
func (c *command) set(ctx context.Context, m *models.Model, name, field string, value interface{}) (*store.Record, error) {
	rec, err := c.rt.Store.Get(ctx, m.Name, name)
	if err != nil {
		return nil, err
	}
	rec.Data[field] = value
	if err := c.rt.Models.Validate(m, rec.Data); err != nil {
		return nil, err
	}

	if field == m.DisplayKey {
		newName, ok := value.(string)
		if !ok || strings.TrimSpace(newName) == "" {
			return nil, mdwerror.New(fmt.Sprintf("'%s' needs a non-empty name", field)).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("commands.set").
				WithDetail("model", m.Name)
		}
		return c.rt.Store.Rename(ctx, m.Name, name, newName, field)
	}
	return c.rt.Store.Update(ctx, m.Name, name, field, value)
}

func (c *command) remove(ctx context.Context, m *models.Model, name string) error {
	if err := c.rt.Store.Delete(ctx, m.Name, name); err != nil {
		return err
	}
	c.log.Info("record deleted", mdwlog.Fields{"model": m.Name, "name": name})
	c.printf("Deleted %s '%s'.", m.Name, name)
	return nil
}

func (c *command) view(ctx context.Context, m *models.Model, name string) error {
	rec, err := c.rt.Store.Get(ctx, m.Name, name)
	if err != nil {
		return err
	}

	c.printf("%s '%s'", m.Name, rec.Name)
	seen := make(map[string]bool, len(rec.Data))
	for _, f := range m.FieldNames() {
		if v, ok := rec.Data[f]; ok {
			c.printf("  %s: %v", f, v)
			seen[f] = true
		}
	}

	var rest []string
	for k := range rec.Data {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		c.printf("  %s: %v", k, rec.Data[k])
	}
	return nil
}

func (c *command) listdir(ctx context.Context, m *models.Model) error {
	records, err := c.rt.Store.List(ctx, m.Name)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.printf("No %s records.", m.Name)
		return nil
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	c.printf("%s (%d): %s", m.Name, len(records), strings.Join(names, ", "))
	return nil
}

func (c *command) attributes(m *models.Model) {
	c.printf("%s attributes:", m.Name)
	for _, f := range m.Fields {
		line := fmt.Sprintf("  %s (%s)", f.Name, f.Type)
		if f.Name == m.DisplayKey {
			line += " [key]"
		}
		c.printf("%s", line)
	}
}

// coerce checks that fieldTok names a field of m and converts valueTok
// into the field's stored form
func (c *command) coerce(m *models.Model, fieldTok, valueTok dexscript.Value) (string, interface{}, error) {
	f, ok := m.Field(fieldTok.Name)
	if !ok {
		return "", nil, mdwerror.New(fmt.Sprintf("'%s' is not a valid attribute of '%s'", fieldTok.Name, m.Name)).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("model", m.Name)
	}
	value, err := m.Coerce(f.Name, valueTok.Name)
	if err != nil {
		return "", nil, err
	}
	return f.Name, value, nil
}
