package dexscript

import "strings"

// Resolve finds the command a line's leading token addresses. It returns
// the class and, when the token already names one, the method; a nil
// class means the token is not a command.
//
// "Class.method" paths win over everything else, then global methods
// (after alias rewriting), then plain class names whose method follows
// as the next token.
func (ns *Namespace) Resolve(v Value) (*Class, string) {
	if prefix, rest, dotted := strings.Cut(v.Name, "."); dotted {
		if class, ok := ns.classes[NormalizeToken(prefix)]; ok {
			if m, ok := class.Method(Alias(NormalizeToken(rest))); ok {
				return class, m.Name
			}
		}
	}

	norm := NormalizeToken(v.Name)
	if method, ok := ns.globals[Alias(norm)]; ok {
		return ns.global, method
	}

	if class, ok := ns.classes[norm]; ok {
		return class, ""
	}
	return nil, ""
}
