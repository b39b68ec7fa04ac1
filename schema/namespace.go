// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "unicode"

// Namespace is a node in the schema tree: it owns named children, each of
// which is a *Namespace (a proto package), a *Type (a message), or an
// *Enum. Root embeds a Namespace as the tree's origin.
//
// Invariant: no two sibling children of a Namespace share a name.
type Namespace struct {
	Name     string
	Parent   *Namespace
	children map[string]interface{}
	order    []string // insertion order, for deterministic iteration
}

func fullName(parent *Namespace, name string) string {
	if parent == nil || parent.Name == "" {
		return name
	}
	return parent.FullName() + "." + name
}

// FullName returns the dotted, fully-qualified name of this namespace.
func (n *Namespace) FullName() string { return fullName(n.Parent, n.Name) }

// Add registers a named child. It reports false, changing nothing, if a
// sibling by that name already exists.
func (n *Namespace) Add(name string, child interface{}) bool {
	if n.children == nil {
		n.children = make(map[string]interface{})
	}
	if _, exists := n.children[name]; exists {
		return false
	}
	n.children[name] = child
	n.order = append(n.order, name)
	return true
}

// Remove deletes a named child, symmetric with Add. It is a no-op if name
// is not present.
func (n *Namespace) Remove(name string) {
	if n.children == nil {
		return
	}
	if _, exists := n.children[name]; !exists {
		return
	}
	delete(n.children, name)
	for i, nm := range n.order {
		if nm == name {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// Get looks up an immediate child by name.
func (n *Namespace) Get(name string) (interface{}, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Children returns the immediate children in insertion order. Callers that
// want only the exported (uppercase-initial) subset use Exposed instead.
func (n *Namespace) Children() []interface{} {
	out := make([]interface{}, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.children[name])
	}
	return out
}

// Exposed returns the subset of children whose declared name begins with an
// uppercase ASCII letter, keyed by name. For an Enum child, the exposed
// value is its Values mapping rather than the *Enum itself, since callers
// that only want to look values up by name shouldn't need to know Enum's
// shape.
func (n *Namespace) Exposed() map[string]interface{} {
	out := make(map[string]interface{})
	for _, name := range n.order {
		if name == "" || !unicode.IsUpper(rune(name[0])) {
			continue
		}
		switch c := n.children[name].(type) {
		case *Enum:
			out[name] = c.Values
		default:
			out[name] = c
		}
	}
	return out
}

// Resolve walks the lexical scope chain starting at this namespace: first
// the namespace itself and its ancestors (inner-to-outer), then — once the
// walk reaches the root — a fully-qualified lookup from the root down. name
// may be relative ("Msg", "pkg.Msg") or fully qualified (".pkg.Msg").
func (n *Namespace) Resolve(name string) (interface{}, bool) {
	if len(name) > 0 && name[0] == '.' {
		return resolveQualified(rootOf(n), name[1:])
	}
	for scope := n; scope != nil; scope = scope.Parent {
		if v, ok := resolveQualified(scope, name); ok {
			return v, true
		}
	}
	return nil, false
}

func rootOf(n *Namespace) *Namespace {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// resolveQualified looks up a possibly dotted name starting at scope,
// without walking outward on failure.
func resolveQualified(scope *Namespace, name string) (interface{}, bool) {
	head, rest := name, ""
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			head, rest = name[:i], name[i+1:]
			break
		}
	}
	child, ok := scope.Get(head)
	if !ok {
		return nil, false
	}
	if rest == "" {
		return child, true
	}
	childNS, ok := asNamespace(child)
	if !ok {
		return nil, false
	}
	return resolveQualified(childNS, rest)
}

func asNamespace(v interface{}) (*Namespace, bool) {
	switch c := v.(type) {
	case *Type:
		return c.Namespace, true
	case *Namespace:
		return c, true
	default:
		return nil, false
	}
}
