// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// Range is an inclusive [Start, End] extension-number range declared on a
// message with `extensions N to M`.
type Range struct{ Start, End int32 }

// Has reports whether id falls within this range.
func (r Range) Has(id int32) bool { return id >= r.Start && id <= r.End }

// Type is a resolved message declaration: an ordered list of fields, an
// id lookup table, a set of oneof groups, and — since messages nest
// messages and enums — a Namespace of its own nested declarations.
//
// Invariant: every field id is unique within a Type; oneof membership
// partitions a subset of Fields.
type Type struct {
	*Namespace

	Fields     []*Field
	byID       map[int32]*Field
	Oneofs     []*OneOf
	IsMapEntry bool // synthesized entry message for a map<K,V> field
	IsGroup    bool // this Type is the body of a group-typed field

	ExtensionRanges []Range

	// Index is this Type's stable position in its Root's TypeRegistry,
	// assigned by Root.indexOf at first use. Decoders do not use it: they
	// follow a field's ResolvedType pointer directly, which already handles
	// cyclic type graphs (a message that contains itself, directly or
	// through a cycle of other messages) without forward declarations.
	Index int
}

func (t *Type) isElement() {}

// NewType constructs an empty message Type named name, parented under ns.
func NewType(ns *Namespace, name string) *Type {
	return &Type{Namespace: &Namespace{Name: name, Parent: ns}, byID: make(map[int32]*Field), Index: -1}
}

// AddField appends a field declaration, wiring its Parent back-pointer and
// registering it in the by-id lookup table. It reports false, changing
// nothing, if id is already taken by another field on this Type.
func (t *Type) AddField(f *Field) bool {
	if t.byID == nil {
		t.byID = make(map[int32]*Field)
	}
	if _, exists := t.byID[f.ID]; exists {
		return false
	}
	f.Parent = t
	t.byID[f.ID] = f
	t.Fields = append(t.Fields, f)
	return true
}

// FieldByID looks up a field by its protobuf field number.
func (t *Type) FieldByID(id int32) (*Field, bool) {
	f, ok := t.byID[id]
	return f, ok
}

// FieldByName looks up a field by its declared name.
func (t *Type) FieldByName(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// RequiredFields returns the subset of Fields with Cardinality == Required.
func (t *Type) RequiredFields() []*Field {
	var out []*Field
	for _, f := range t.Fields {
		if f.Cardinality == Required {
			out = append(out, f)
		}
	}
	return out
}

// ExtensionRange reports whether id falls inside a declared extension
// range on this Type.
func (t *Type) ExtensionRange(id int32) bool {
	for _, r := range t.ExtensionRanges {
		if r.Has(id) {
			return true
		}
	}
	return false
}
