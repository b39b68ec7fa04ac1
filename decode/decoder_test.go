// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/golang/protoschema/protoerr"
	"github.com/golang/protoschema/schema"
)

func field(name string, id int32, typeName string, card schema.Cardinality) *schema.Field {
	return &schema.Field{Name: name, ID: id, TypeName: typeName, Cardinality: card}
}

func mustResolve(t *testing.T, root *schema.Root) {
	t.Helper()
	if err := root.ResolveAll(); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
}

// TestS1Scalar decodes a single int32 field and a single string field.
func TestS1Scalar(t *testing.T) {
	root := schema.NewRoot()
	m := schema.NewType(&root.Namespace, "M")
	m.AddField(field("a", 1, "int32", schema.Singular))
	m.AddField(field("b", 2, "string", schema.Singular))
	root.AddType(&root.Namespace, m)
	mustResolve(t, root)

	buf := []byte{0x08, 0x96, 0x01, 0x12, 0x02, 0x68, 0x69}
	msg, err := Decode(root, m, buf, Options{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := msg.Get(1)
	b, _ := msg.Get(2)
	if a.(int32) != 150 {
		t.Errorf("a = %v, want 150", a)
	}
	if b.(string) != "hi" {
		t.Errorf("b = %v, want hi", b)
	}
}

// TestS2PackedAndUnpacked decodes a repeated int32 field once from its
// packed encoding and once from its unpacked encoding, asserting the decoder
// accepts both forms and yields the same list.
func TestS2PackedAndUnpacked(t *testing.T) {
	root := schema.NewRoot()
	m := schema.NewType(&root.Namespace, "M")
	f := field("v", 1, "int32", schema.Repeated)
	f.Packed = true
	m.AddField(f)
	root.AddType(&root.Namespace, m)
	mustResolve(t, root)

	packed := []byte{0x0A, 0x03, 0x01, 0x02, 0x03}
	msg, err := Decode(root, m, packed, Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertIntList(t, msg, []int32{1, 2, 3})

	unpacked := []byte{0x08, 0x01, 0x08, 0x02, 0x08, 0x03}
	msg2, err := Decode(root, m, unpacked, Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertIntList(t, msg2, []int32{1, 2, 3})
}

func assertIntList(t *testing.T, msg *Message, want []int32) {
	t.Helper()
	v, _ := msg.Get(1)
	list, _ := v.([]interface{})
	got := make([]int32, len(list))
	for i, e := range list {
		got[i] = e.(int32)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("repeated field mismatch (-want +got):\n%s", diff)
	}
}

// TestS3Map decodes a map<string,int32> field from its wire representation
// as repeated key/value entry sub-messages.
func TestS3Map(t *testing.T) {
	root := schema.NewRoot()
	entry := schema.NewType(&root.Namespace, "MEntry")
	entry.IsMapEntry = true
	entry.AddField(field("key", 1, "string", schema.Singular))
	entry.AddField(field("value", 2, "int32", schema.Singular))
	root.AddType(&root.Namespace, entry)

	m := schema.NewType(&root.Namespace, "M")
	mapField := field("m", 1, "MEntry", schema.Repeated)
	m.AddField(mapField)
	root.AddType(&root.Namespace, m)

	mustResolve(t, root)
	// Manually flag the field as a map the way
	// schema/protodesc.ResolveMapFields would.
	mapField.Map = true
	mapField.Cardinality = schema.Singular
	keyField, _ := entry.FieldByID(1)
	valueField, _ := entry.FieldByID(2)
	mapField.KeyType = keyField.TypeName
	mapField.MapKeyBasic = keyField.Basic
	mapField.TypeName = valueField.TypeName
	mapField.ResolvedType = valueField.ResolvedType
	mapField.Basic = valueField.Basic
	mapField.BasicWireType = valueField.BasicWireType

	buf := []byte{
		0x0A, 0x07, 0x0A, 0x03, 'f', 'o', 'o', 0x10, 0x2A,
		0x0A, 0x07, 0x0A, 0x03, 'b', 'a', 'r', 0x10, 0x0B,
	}
	msg, err := Decode(root, m, buf, Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := msg.Get(1)
	mp := v.(map[interface{}]interface{})
	want := map[interface{}]interface{}{"foo": int32(42), "bar": int32(11)}
	if diff := cmp.Diff(want, mp); diff != "" {
		t.Errorf("map field mismatch (-want +got):\n%s", diff)
	}
}

// TestS4MissingRequired asserts that a missing required field surfaces a
// ProtocolError carrying the partially-decoded message.
func TestS4MissingRequired(t *testing.T) {
	root := schema.NewRoot()
	m := schema.NewType(&root.Namespace, "M")
	m.AddField(field("a", 1, "int32", schema.Required))
	m.AddField(field("b", 2, "int32", schema.Required))
	root.AddType(&root.Namespace, m)
	mustResolve(t, root)

	buf := []byte{0x08, 0x05}
	_, err := Decode(root, m, buf, Options{})
	var pe *protoerr.ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want *ProtocolError", err)
	}
	inst, ok := pe.Instance.(*Message)
	if !ok {
		t.Fatalf("instance is %T, want *Message", pe.Instance)
	}
	a, _ := inst.Get(1)
	if a.(int32) != 5 {
		t.Errorf("partial instance a = %v, want 5", a)
	}
}

// TestS5UnknownField asserts that an unrecognized field number is
// preserved in Message.Unknown without disturbing known-field decoding.
func TestS5UnknownField(t *testing.T) {
	root := schema.NewRoot()
	m := schema.NewType(&root.Namespace, "M")
	m.AddField(field("a", 1, "int32", schema.Singular))
	root.AddType(&root.Namespace, m)
	mustResolve(t, root)

	buf := []byte{0x08, 0x05, 0x1A, 0x03, 'f', 'o', 'o'}
	msg, err := Decode(root, m, buf, Options{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := msg.Get(1)
	if a.(int32) != 5 {
		t.Errorf("a = %v, want 5", a)
	}
	if msg.Len() != 1 {
		t.Errorf("expected only field 1 populated, got %d fields", msg.Len())
	}
	if len(msg.Unknown) == 0 {
		t.Errorf("expected unknown field bytes retained")
	}
}

func TestTruncatedNeverPanics(t *testing.T) {
	root := schema.NewRoot()
	m := schema.NewType(&root.Namespace, "M")
	m.AddField(field("a", 1, "int32", schema.Singular))
	m.AddField(field("b", 2, "string", schema.Singular))
	root.AddType(&root.Namespace, m)
	mustResolve(t, root)

	full := []byte{0x08, 0x96, 0x01, 0x12, 0x02, 0x68, 0x69}
	for i := 1; i < len(full); i++ {
		prefix := full[:i]
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("panic on prefix length %d: %v", i, r)
				}
			}()
			_, err := Decode(root, m, prefix, Options{})
			if err == nil {
				return
			}
			var se interface{ Kind() protoerr.Kind }
			if !errors.As(err, &se) {
				t.Fatalf("prefix %d: non-kind error %v", i, err)
			}
		}()
	}
}

func TestOneofClearsSibling(t *testing.T) {
	root := schema.NewRoot()
	m := schema.NewType(&root.Namespace, "M")
	oo := &schema.OneOf{Name: "choice", Parent: m}
	m.Oneofs = append(m.Oneofs, oo)
	fa := field("a", 1, "int32", schema.Singular)
	fb := field("b", 2, "int32", schema.Singular)
	fa.Oneof, fb.Oneof = oo, oo
	oo.Fields = []*schema.Field{fa, fb}
	m.AddField(fa)
	m.AddField(fb)
	root.AddType(&root.Namespace, m)
	mustResolve(t, root)

	buf := []byte{0x08, 0x01, 0x10, 0x02}
	msg, err := Decode(root, m, buf, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Has(1) {
		t.Errorf("expected field 1 cleared when field 2 (same oneof) was set")
	}
	b, _ := msg.Get(2)
	if b.(int32) != 2 {
		t.Errorf("b = %v, want 2", b)
	}
}
