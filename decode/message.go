// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decode implements the schema-driven wire decoder: given a
// resolved message schema.Type, it produces a Message value from a
// length-delimited (or group-delimited) byte stream.
package decode

import "github.com/golang/protoschema/schema"

// Message is a decoded protobuf value. Field storage is keyed by field
// number rather than by Go struct field, since this runtime has no
// generated types to decode into — it is the dynamic-message shape the
// teacher's reflect/protoreflect.KnownFields interface describes
// (Len/Has/Get/Set/Range by field number), collapsed into a concrete type
// since nothing here needs KnownFields' interface-level indirection.
//
// A field's stored value is one of:
//   - a scalar Go value (bool, int32, int64, uint32, uint64, float32,
//     float64, string, []byte) for a singular scalar or enum field,
//   - *Message for a singular message or group field,
//   - []interface{} for a repeated field of any of the above,
//   - map[interface{}]interface{} for a map field.
//
// Decoded []byte and string values are copies out of the source buffer
// (see wire.Reader.Bytes), so a Message safely outlives the Reader it was
// built from.
type Message struct {
	Type *schema.Type

	values map[int32]interface{}

	// Unknown accumulates the raw tag+payload bytes of every field this
	// decode skipped because it did not match a case in the type's dispatch
	// table, in encounter order. It never affects Get/Has/Range for known
	// fields.
	Unknown []byte

	// Extensions holds decoded values for extension fields recognized via
	// the owning schema.Root's resolved extension attachments (fields that
	// have a sister field registered on this message's Type; the Type's
	// declared extension ranges are not consulted). Keyed by field number,
	// same value shapes as values above.
	Extensions map[int32]interface{}
}

func newMessage(t *schema.Type) *Message {
	return &Message{Type: t, values: make(map[int32]interface{})}
}

// Has reports whether field id is populated.
func (m *Message) Has(id int32) bool {
	_, ok := m.values[id]
	return ok
}

// Get returns the value stored for field id, and whether it was present.
func (m *Message) Get(id int32) (interface{}, bool) {
	v, ok := m.values[id]
	return v, ok
}

// Len reports the number of populated known fields.
func (m *Message) Len() int { return len(m.values) }

// Range calls f for every populated field, in an undefined order. Range
// stops early if f returns false.
func (m *Message) Range(f func(id int32, v interface{}) bool) {
	for id, v := range m.values {
		if !f(id, v) {
			return
		}
	}
}

// set stores v for field id, clearing any other field in the same oneof
// group first — mirrors the teacher's documented KnownFields.Set behavior:
// "Setting a field belonging to a oneof implicitly clears any other field
// that may be currently set by the same oneof."
func (m *Message) set(fd *schema.Field, v interface{}) {
	if fd.Oneof != nil {
		for _, sibling := range fd.Oneof.Fields {
			if sibling.ID != fd.ID {
				delete(m.values, sibling.ID)
			}
		}
	}
	m.values[fd.ID] = v
}

// appendRepeated appends v to the (possibly nil) repeated slice stored for
// field id.
func (m *Message) appendRepeated(id int32, v interface{}) {
	list, _ := m.values[id].([]interface{})
	m.values[id] = append(list, v)
}

// mapFor returns the (possibly newly-created) map stored for field id.
func (m *Message) mapFor(id int32) map[interface{}]interface{} {
	mv, ok := m.values[id].(map[interface{}]interface{})
	if !ok {
		mv = make(map[interface{}]interface{})
		m.values[id] = mv
	}
	return mv
}

func (m *Message) setExtension(id int32, v interface{}) {
	if m.Extensions == nil {
		m.Extensions = make(map[int32]interface{})
	}
	m.Extensions[id] = v
}

// store is set, routed to m.Extensions instead of known-field storage when
// fd is an extension's sister field (fd.DeclaringField != nil).
func (m *Message) store(fd *schema.Field, v interface{}) {
	if fd.DeclaringField != nil {
		m.setExtension(fd.ID, v)
		return
	}
	m.set(fd, v)
}

// storeRepeated is appendRepeated, routed the same way as store.
func (m *Message) storeRepeated(fd *schema.Field, v interface{}) {
	if fd.DeclaringField != nil {
		list, _ := m.Extensions[fd.ID].([]interface{})
		m.setExtension(fd.ID, append(list, v))
		return
	}
	m.appendRepeated(fd.ID, v)
}
