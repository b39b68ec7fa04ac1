// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/golang/protoschema/protoerr"
)

func TestResolveBasicAndElement(t *testing.T) {
	root := NewRoot()
	pkg := &Namespace{Name: "pkg", Parent: &root.Namespace}
	root.Add("pkg", pkg)

	inner := NewType(pkg, "Inner")
	root.AddType(pkg, inner)

	outer := NewType(pkg, "Outer")
	outer.AddField(&Field{Name: "n", ID: 1, TypeName: "int32", Cardinality: Singular})
	outer.AddField(&Field{Name: "child", ID: 2, TypeName: "Inner", Cardinality: Singular})
	root.AddType(pkg, outer)

	if err := root.ResolveAll(); err != nil {
		t.Fatal(err)
	}

	n, _ := outer.FieldByID(1)
	if n.Basic != BasicInt32 || n.ResolvedType != nil {
		t.Errorf("scalar field resolved wrong: %+v", n)
	}
	child, _ := outer.FieldByID(2)
	if child.ResolvedType != Element(inner) {
		t.Errorf("element field resolved to %v, want %v", child.ResolvedType, inner)
	}
}

func TestResolveUnknownTypeFails(t *testing.T) {
	root := NewRoot()
	m := NewType(&root.Namespace, "M")
	m.AddField(&Field{Name: "x", ID: 1, TypeName: "DoesNotExist", Cardinality: Singular})
	root.AddType(&root.Namespace, m)

	if err := root.ResolveAll(); err == nil {
		t.Fatal("expected UnresolvedReference error")
	}
}

// TestDeferredExtensionAttachesOnLateType asserts that an extension field
// declared before its extend target loads attaches once the target is
// added, and that ResolveAll then succeeds.
func TestDeferredExtensionAttachesOnLateType(t *testing.T) {
	root := NewRoot()

	ext := &Namespace{Name: "ext", Parent: &root.Namespace}
	root.Add("ext", ext)
	extField := &Field{
		Name:        "bonus",
		ID:          100,
		TypeName:    "int32",
		Cardinality: Singular,
		Extend:      "M",
		Parent:      NewType(ext, "Extender"),
	}
	extField.Parent.AddField(extField)
	root.AddType(ext, extField.Parent)

	if err := extField.Resolve(ext, root); err != nil {
		t.Fatal(err)
	}
	if len(root.Deferred) != 1 {
		t.Fatalf("expected field deferred pending M, got %d deferred", len(root.Deferred))
	}

	target := NewType(&root.Namespace, "M")
	root.AddType(&root.Namespace, target)

	if len(root.Deferred) != 0 {
		t.Fatalf("expected deferred extension to attach once M was added, still have %d", len(root.Deferred))
	}
	sister, ok := target.FieldByName(extensionFieldName(extField))
	if !ok {
		t.Fatal("expected sister field attached to M")
	}
	if sister.ID != 100 {
		t.Errorf("sister field id = %d, want 100", sister.ID)
	}

	if err := root.ResolveAll(); err != nil {
		t.Fatalf("ResolveAll after attach: %v", err)
	}
}

func TestUnresolvableExtensionsReported(t *testing.T) {
	root := NewRoot()
	parent := NewType(&root.Namespace, "Extender")
	f := &Field{
		Name:        "bonus",
		ID:          100,
		TypeName:    "int32",
		Cardinality: Singular,
		Extend:      "NeverDeclared",
		Parent:      parent,
	}
	parent.AddField(f)
	root.AddType(&root.Namespace, parent)

	err := root.ResolveAll()
	ue, ok := err.(*protoerr.UnresolvableExtensions)
	if !ok {
		t.Fatalf("got %v (%T), want *protoerr.UnresolvableExtensions", err, err)
	}
	if len(ue.Entries) != 1 || ue.Entries[0].ExtendTarget != "NeverDeclared" {
		t.Errorf("entries = %+v", ue.Entries)
	}
}

func TestOneofSiblingsRecorded(t *testing.T) {
	root := NewRoot()
	m := NewType(&root.Namespace, "M")
	oo := &OneOf{Name: "choice", Parent: m}
	a := &Field{Name: "a", ID: 1, TypeName: "int32", Cardinality: Singular, Oneof: oo}
	b := &Field{Name: "b", ID: 2, TypeName: "int32", Cardinality: Singular, Oneof: oo}
	oo.Fields = []*Field{a, b}
	m.Oneofs = append(m.Oneofs, oo)
	m.AddField(a)
	m.AddField(b)
	root.AddType(&root.Namespace, m)

	if err := root.ResolveAll(); err != nil {
		t.Fatal(err)
	}
	if len(m.Oneofs) != 1 || len(m.Oneofs[0].Fields) != 2 {
		t.Fatalf("oneof bookkeeping lost: %+v", m.Oneofs)
	}
}

func TestNamespaceResolveQualifiedAndRelative(t *testing.T) {
	root := NewRoot()
	pkg := &Namespace{Name: "pkg", Parent: &root.Namespace}
	root.Add("pkg", pkg)
	msg := NewType(pkg, "Msg")
	root.AddType(pkg, msg)

	if v, ok := pkg.Resolve("Msg"); !ok || v != Element(msg) {
		t.Errorf("relative resolve failed: %v %v", v, ok)
	}
	if v, ok := msg.Namespace.Resolve(".pkg.Msg"); !ok || v != Element(msg) {
		t.Errorf("fully-qualified resolve failed: %v %v", v, ok)
	}
}
