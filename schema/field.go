// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/golang/protoschema/wire"

// Cardinality is a field's multiplicity, mirroring the teacher's
// protoreflect.Cardinality enum.
type Cardinality uint8

const (
	Singular Cardinality = iota
	Optional
	Required
	Repeated
)

func (c Cardinality) String() string {
	switch c {
	case Optional:
		return "optional"
	case Required:
		return "required"
	case Repeated:
		return "repeated"
	}
	return "singular"
}

// Element is the resolved target of a field's declared type: either a
// *Type (message) or an *Enum. It is a closed sum type, following the
// unexported-marker-method idiom the teacher uses for Descriptor/
// isFileDescriptor in reflect/protoreflect/type.go.
type Element interface {
	isElement()
	FullName() string
}

// Field is a single message field declaration. Before Resolve runs, only
// the attributes parsed from source are populated; Resolve fills in
// Basic, ResolvedType, and BasicWireType. The packed/unpacked alternate
// wire type is not stored on the field; the decoder derives it from
// PackedCapable.
type Field struct {
	Name        string
	ID          int32
	TypeName    string // symbolic name as declared, e.g. "int32" or ".pkg.Msg"
	Cardinality Cardinality
	Packed      bool // preference; both forms are always accepted on decode
	Map         bool
	KeyType     string // only meaningful when Map is true
	Group       bool
	Extend      string // non-empty for extension fields
	Options     map[string]string

	Oneof *OneOf // nil unless this field is part of a oneof group

	Parent *Type // the message this field is declared on, set by
	// Type.AddField (nil until then). For an extension field this is the
	// declaring message, not the extended one; ExtensionField.Parent is
	// the extended message once the extension has attached.

	// Populated by Resolve.
	Basic         Basic  // valid only when ResolvedType == nil
	ResolvedType  Element
	BasicWireType wire.Type
	MapKeyBasic   Basic // valid only when Map is true

	// ExtensionField is set on the *extending* Field once the deferred
	// extension protocol (Root.tryAttachExtension) has constructed its sister
	// field inside the extended Type.
	ExtensionField *Field
	// DeclaringField is set on the sister field inside the extended Type,
	// pointing back at the field that declared the extension.
	DeclaringField *Field
}

// IsResolved reports whether Resolve has run for this field.
func (f *Field) IsResolved() bool {
	return f.ResolvedType != nil || f.Basic != BasicInvalid
}

// WireType returns the wire type used for this field's per-element (i.e.
// unpacked) encoding.
func (f *Field) WireType() wire.Type {
	switch {
	case f.Group:
		return wire.StartGroup
	case f.Map:
		return wire.Bytes // map entries are length-delimited
	case f.ResolvedType != nil:
		if _, ok := f.ResolvedType.(*Enum); ok {
			return wire.Varint
		}
		return wire.Bytes // message
	default:
		return f.BasicWireType
	}
}

// PackedCapable reports whether this field's value type may use the packed
// repeated encoding.
func (f *Field) PackedCapable() bool {
	if f.ResolvedType != nil {
		if _, ok := f.ResolvedType.(*Enum); ok {
			return true
		}
		return false
	}
	return f.Basic.Packable()
}
