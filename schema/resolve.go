// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/golang/protoschema/protoerr"

// Resolve converts f's declared type name into a direct reference: a
// primitive Basic, or an Element (*Type or *Enum) found by walking the
// lexical scope chain rooted at scope (f's declaring parent's namespace).
// It also runs the deferred-extension protocol if f declares an `extend`
// target.
func (f *Field) Resolve(scope *Namespace, root *Root) error {
	if f.Map {
		if b, ok := LookupBasic(f.KeyType); ok {
			f.MapKeyBasic = b
		} else {
			return protoerr.UnresolvedReference(f.KeyType)
		}
	}
	if b, ok := LookupBasic(f.TypeName); ok {
		f.Basic = b
		f.BasicWireType = b.WireType()
		f.ResolvedType = nil
	} else {
		v, ok := scope.Resolve(f.TypeName)
		if !ok {
			return protoerr.UnresolvedReference(f.TypeName)
		}
		switch el := v.(type) {
		case *Type:
			f.ResolvedType = el
			root.indexOf(el)
		case *Enum:
			f.ResolvedType = el
			f.Basic = BasicInt32 // enums decode exactly like int32 on the wire
			f.BasicWireType = BasicInt32.WireType()
		default:
			// A field's type name resolved to something other than a message
			// or enum — most commonly a package namespace, when the declared
			// name names a package instead of a type within it.
			return protoerr.UnresolvedReference(f.TypeName)
		}
	}
	if f.Extend != "" {
		root.tryAttachExtension(f, scope)
	}
	return nil
}

// ResolveAll resolves every field of every Type transitively reachable from
// r, in declaration order. At exit r.Deferred must be empty or ResolveAll
// fails with UnresolvableExtensions listing each deferred field's extend
// target and its declaring parent's fully-qualified name.
func (r *Root) ResolveAll() error {
	if err := resolveNamespace(&r.Namespace, r); err != nil {
		return err
	}
	r.retryDeferred()
	if len(r.Deferred) > 0 {
		entries := make([]protoerr.DeferredExtension, 0, len(r.Deferred))
		for _, f := range r.Deferred {
			declParent := ""
			if f.Parent != nil {
				declParent = f.Parent.FullName()
			}
			entries = append(entries, protoerr.DeferredExtension{
				ExtendTarget:    f.Extend,
				DeclaringParent: declParent,
				FieldName:       f.Name,
			})
		}
		return &protoerr.UnresolvableExtensions{Entries: entries}
	}
	return nil
}

func resolveNamespace(ns *Namespace, root *Root) error {
	for _, child := range ns.Children() {
		switch c := child.(type) {
		case *Type:
			root.indexOf(c)
			for _, f := range c.Fields {
				if err := f.Resolve(c.Namespace, root); err != nil {
					return err
				}
			}
			if err := resolveNamespace(c.Namespace, root); err != nil {
				return err
			}
		case *Namespace:
			if err := resolveNamespace(c, root); err != nil {
				return err
			}
		case *Enum:
			// nothing to resolve on an enum itself
		}
	}
	return nil
}
