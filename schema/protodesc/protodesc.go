// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protodesc builds schema.Root contents from a
// descriptorpb.FileDescriptorProto, the same descriptor shape protoc emits
// for a .proto file, so this package works as an alternative to textual
// .proto parsing wherever a caller can hand it a descriptor directly. A
// FileDescriptorProto can itself be produced either by
// unmarshaling JSON (encoding/json against the descriptorpb struct tags,
// or google.golang.org/protobuf/encoding/protojson) or binary wire bytes
// (google.golang.org/protobuf/proto.Unmarshal); both feed the same
// AddFile entry point below, so the loader's bundled well-known types
// (compiled-in protoreflect.FileDescriptor values converted via
// protodesc.ToFileDescriptorProto) and a caller's own hand-authored
// descriptors are ingested identically.
package protodesc

import (
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/golang/protoschema/schema"
)

// AddFile populates root with the package, messages, enums, and extension
// fields declared in fd. It does not resolve symbolic references — call
// root.ResolveAll() once every file in the import graph has been added.
func AddFile(root *schema.Root, fd *descriptorpb.FileDescriptorProto) error {
	ns := packageNamespace(root, fd.GetPackage())

	for _, mt := range fd.GetMessageType() {
		if err := addMessage(root, ns, mt); err != nil {
			return err
		}
	}
	for _, et := range fd.GetEnumType() {
		addEnum(root, ns, et)
	}
	for _, extField := range fd.GetExtension() {
		f := toField(extField)
		f.Extend = trimLeadingDot(extField.GetExtendee())
		// Parented at package scope: the field's Resolve call attempts the
		// extend attachment against this scope.
		container := implicitExtensionContainer(root, ns)
		container.AddField(f)
	}
	return nil
}

// packageNamespace returns (creating, if necessary) the nested Namespace
// chain for a dotted package name, rooted at root.
func packageNamespace(root *schema.Root, pkg string) *schema.Namespace {
	if pkg == "" {
		return &root.Namespace
	}
	cur := &root.Namespace
	for _, part := range splitDots(pkg) {
		child, ok := cur.Get(part)
		if !ok {
			ns := &schema.Namespace{Name: part, Parent: cur}
			cur.Add(part, ns)
			cur = ns
			continue
		}
		sub, ok := child.(*schema.Namespace)
		if !ok {
			// A message/enum already claimed this name segment; nest under
			// it directly is not well-formed, but degrade gracefully rather
			// than panicking on a malformed descriptor.
			return cur
		}
		cur = sub
	}
	return cur
}

// implicitExtensionContainer holds top-level extension field declarations:
// a synthetic Type named "$extensions" used purely to give extension fields a Parent
// whose FullName participates in the sister field's generated name (see
// schema.extensionFieldName).
func implicitExtensionContainer(root *schema.Root, ns *schema.Namespace) *schema.Type {
	const name = "$extensions"
	if v, ok := ns.Get(name); ok {
		return v.(*schema.Type)
	}
	t := schema.NewType(ns, name)
	ns.Add(name, t)
	root.AddType(ns, t)
	return t
}

func addMessage(root *schema.Root, ns *schema.Namespace, mt *descriptorpb.DescriptorProto) error {
	t := schema.NewType(ns, mt.GetName())
	t.IsMapEntry = mt.GetOptions().GetMapEntry()

	for _, r := range mt.GetExtensionRange() {
		t.ExtensionRanges = append(t.ExtensionRanges, schema.Range{Start: r.GetStart(), End: r.GetEnd() - 1})
	}

	oneofs := make([]*schema.OneOf, len(mt.GetOneofDecl()))
	for i, od := range mt.GetOneofDecl() {
		oneofs[i] = &schema.OneOf{Name: od.GetName(), Parent: t}
		t.Oneofs = append(t.Oneofs, oneofs[i])
	}

	for _, fdp := range mt.GetField() {
		f := toField(fdp)
		if fdp.OneofIndex != nil {
			idx := int(fdp.GetOneofIndex())
			if idx >= 0 && idx < len(oneofs) {
				f.Oneof = oneofs[idx]
			}
		}
		if !t.AddField(f) {
			return fmt.Errorf("protoschema: duplicate field id %d on %s", f.ID, t.FullName())
		}
		if f.Oneof != nil {
			f.Oneof.Fields = append(f.Oneof.Fields, f)
		}
	}

	if !ns.Add(t.Name, t) {
		return fmt.Errorf("protoschema: duplicate type name %q", t.FullName())
	}
	root.AddType(ns, t)

	for _, net := range mt.GetNestedType() {
		if err := addMessage(root, t.Namespace, net); err != nil {
			return err
		}
	}
	for _, ee := range mt.GetEnumType() {
		addEnum(root, t.Namespace, ee)
	}
	return nil
}

func addEnum(root *schema.Root, ns *schema.Namespace, et *descriptorpb.EnumDescriptorProto) {
	e := &schema.Enum{Name: et.GetName(), Parent: ns}
	for _, v := range et.GetValue() {
		e.Add(v.GetName(), v.GetNumber(), true)
	}
	root.AddEnum(ns, e)
}

func toField(fdp *descriptorpb.FieldDescriptorProto) *schema.Field {
	f := &schema.Field{
		Name:    fdp.GetName(),
		ID:      fdp.GetNumber(),
		Options: map[string]string{},
	}
	switch fdp.GetLabel() {
	case descriptorpb.FieldDescriptorProto_LABEL_REQUIRED:
		f.Cardinality = schema.Required
	case descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		f.Cardinality = schema.Repeated
	default:
		f.Cardinality = schema.Singular
	}
	f.Group = fdp.GetType() == descriptorpb.FieldDescriptorProto_TYPE_GROUP
	if fdp.GetOptions() != nil {
		f.Packed = fdp.GetOptions().GetPacked()
	}
	if fdp.TypeName != nil {
		f.TypeName = trimLeadingDot(fdp.GetTypeName())
	} else {
		f.TypeName = primitiveName(fdp.GetType())
	}
	// map<K,V> fields are represented on the wire (and in descriptor form)
	// as a repeated message field whose message type is a synthetic
	// *_entry message with a "key" and "value" field. That shape is not
	// detected here: the field starts out as an ordinary repeated message
	// field, and ResolveMapFields later populates schema.Field.Map/KeyType.
	f.Map = false // resolved once the referenced message's IsMapEntry is known; see ResolveMapFields.
	return f
}

func primitiveName(t descriptorpb.FieldDescriptorProto_Type) string {
	switch t {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "double"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return "float"
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return "int64"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return "uint64"
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return "int32"
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return "fixed64"
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return "fixed32"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "bool"
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "bytes"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return "uint32"
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "sfixed32"
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "sfixed64"
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return "sint32"
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return "sint64"
	}
	return "" // TYPE_MESSAGE, TYPE_ENUM, TYPE_GROUP: carried via TypeName instead
}

func trimLeadingDot(s string) string {
	if len(s) > 0 && s[0] == '.' {
		return s[1:]
	}
	return s
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// ResolveMapFields walks every Type reachable from root and flags fields
// whose resolved message type is a synthesized map-entry message as
// schema.Field.Map fields, copying the entry message's own already-
// resolved "key"/"value" fields (field numbers 1 and 2) into the map
// field's KeyType/ResolvedType/Basic. It must run after root.ResolveAll,
// since it depends on the entry message's key/value fields already being
// resolved; no further resolve pass is needed afterward because the
// fields it copies from are already fully resolved.
func ResolveMapFields(root *schema.Root) {
	walkTypes(&root.Namespace, func(t *schema.Type) {
		for _, f := range t.Fields {
			mt, ok := f.ResolvedType.(*schema.Type)
			if !ok || !mt.IsMapEntry {
				continue
			}
			keyField, _ := mt.FieldByID(1)
			valueField, _ := mt.FieldByID(2)
			if keyField == nil || valueField == nil {
				continue
			}
			f.Map = true
			f.Cardinality = schema.Singular
			f.KeyType = keyField.TypeName
			f.MapKeyBasic = keyField.Basic
			f.TypeName = valueField.TypeName
			f.ResolvedType = valueField.ResolvedType
			f.Basic = valueField.Basic
			f.BasicWireType = valueField.BasicWireType
		}
	})
}

func walkTypes(ns *schema.Namespace, visit func(*schema.Type)) {
	for _, child := range ns.Children() {
		switch c := child.(type) {
		case *schema.Type:
			visit(c)
			walkTypes(c.Namespace, visit)
		case *schema.Namespace:
			walkTypes(c, visit)
		}
	}
}
