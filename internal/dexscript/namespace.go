package dexscript

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/foundation/utils/stringx"
)

// Runtime is the host handle passed to every command factory
type Runtime interface{}

// Instance is a command object created for one line
type Instance interface{}

// Factory creates the command instance for one line. It is the lifecycle
// hook of a class and runs after the method name has been resolved.
type Factory func(rt Runtime, shared *Shared) (Instance, error)

// MethodFunc is the body of a command method
type MethodFunc func(ctx context.Context, inst Instance, args []Value) error

// Method declares a callable method and its arity. MaxArgs < 0 means the
// method accepts any number of arguments from MinArgs on.
type Method struct {
	Name    string
	MinArgs int
	MaxArgs int
	Call    MethodFunc
	Usage   string
}

// Accepts reports whether n arguments satisfy the method's arity
func (m *Method) Accepts(n int) bool {
	if n < m.MinArgs {
		return false
	}
	return m.MaxArgs < 0 || n <= m.MaxArgs
}

// Class groups the methods of one command target. The global class holds
// methods that are callable without a class prefix.
type Class struct {
	Name    string
	Global  bool
	New     Factory
	Methods map[string]*Method

	index map[string]*Method
}

// Method returns the method registered under name in any spelling
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.index[NormalizeToken(name)]
	return m, ok
}

// MethodNames returns the real method names in sorted order
func (c *Class) MethodNames() []string {
	names := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

var aliases = map[string]string{
	"ls":     "listdir",
	"rm":     "delete",
	"del":    "delete",
	"set":    "update",
	"show":   "view",
	"fields": "attributes",
}

// Alias maps a normalized short form to its canonical method name
func Alias(normalized string) string {
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

var wordBreakRemover = strings.NewReplacer("_", "", "-", "")

// NormalizeToken lower-cases s, removes "_" and "-" and strips leading
// slashes and surrounding whitespace. It is idempotent.
func NormalizeToken(s string) string {
	s = wordBreakRemover.Replace(strings.ToLower(s))
	s = strings.TrimLeftFunc(s, func(r rune) bool { return r == '/' || unicode.IsSpace(r) })
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Namespace is the read-only command table shared by all runs
type Namespace struct {
	classes map[string]*Class
	order   []*Class
	global  *Class
	globals map[string]string
}

// NewNamespace indexes classes. At most one class may be global and
// class names must stay distinct after normalization.
func NewNamespace(classes ...*Class) (*Namespace, error) {
	ns := &Namespace{
		classes: make(map[string]*Class),
		globals: make(map[string]string),
	}

	for _, c := range classes {
		if c == nil || stringx.IsBlank(c.Name) {
			return nil, invalidNamespace("class name cannot be empty")
		}
		if c.New == nil {
			return nil, invalidNamespace(fmt.Sprintf("class %q has no factory", c.Name))
		}

		c.index = make(map[string]*Method, len(c.Methods))
		for key, m := range c.Methods {
			if m.Name == "" {
				m.Name = key
			}
			norm := NormalizeToken(m.Name)
			if _, dup := c.index[norm]; dup {
				return nil, invalidNamespace(fmt.Sprintf("method %q registered twice on %q", m.Name, c.Name))
			}
			if m.Call == nil {
				return nil, invalidNamespace(fmt.Sprintf("method %q of %q has no body", m.Name, c.Name))
			}
			c.index[norm] = m
		}

		if c.Global {
			if ns.global != nil {
				return nil, invalidNamespace(fmt.Sprintf("classes %q and %q are both global", ns.global.Name, c.Name))
			}
			ns.global = c
			for norm, m := range c.index {
				ns.globals[norm] = m.Name
			}
			continue
		}

		key := NormalizeToken(c.Name)
		if prev, dup := ns.classes[key]; dup {
			return nil, invalidNamespace(fmt.Sprintf("classes %q and %q share a name", prev.Name, c.Name))
		}
		ns.classes[key] = c
		ns.order = append(ns.order, c)
	}

	return ns, nil
}

func invalidNamespace(msg string) error {
	return mdwerror.New(msg).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("dexscript.NewNamespace")
}

// Class returns the non-global class registered under name in any spelling
func (ns *Namespace) Class(name string) (*Class, bool) {
	c, ok := ns.classes[NormalizeToken(name)]
	return c, ok
}

// Global returns the global class, or nil
func (ns *Namespace) Global() *Class {
	return ns.global
}

// Classes returns the non-global classes in registration order
func (ns *Namespace) Classes() []*Class {
	out := make([]*Class, len(ns.order))
	copy(out, ns.order)
	return out
}

// Aliases returns a copy of the alias table
func (ns *Namespace) Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

func (ns *Namespace) isGlobal(normalized string) bool {
	_, ok := ns.globals[normalized]
	return ok
}

func (ns *Namespace) isClass(normalized string) bool {
	_, ok := ns.classes[normalized]
	return ok
}
