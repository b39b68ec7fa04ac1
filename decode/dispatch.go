// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"sync"

	"github.com/golang/protoschema/schema"
	"github.com/golang/protoschema/wire"
)

// kind identifies which decode strategy a dispatch-table entry implements:
// a plain scalar read, a repeated scalar (packed or unpacked), a nested
// message or group (singular or repeated), or a map entry.
type kind uint8

const (
	kScalar kind = iota
	kRepeatedScalar
	kPackedScalar
	kMessage
	kRepeatedMessage
	kGroup
	kRepeatedGroup
	kMap
)

// action is one entry in a Type's dispatch table: what to do when a tag
// matching this (field id, wire type) pair is observed.
type action struct {
	field *schema.Field
	kind  kind
}

// table is the per-Type dispatch table: wire tag -> action. A tag is
// (field_id*8 + wire_type); see internal/wireconv.Tag. Some fields
// contribute more than one entry (packable repeated fields accept both
// their packed and unpacked wire types).
type table map[uint64]action

var tableCache sync.Map // *schema.Type -> table

// dispatchFor returns (building and caching, if necessary) the dispatch
// table for t. Building the table is safe to race across goroutines: two
// concurrent builders may both compute the table, but they compute the same
// value, and sync.Map.LoadOrStore resolves to a single winner.
func dispatchFor(t *schema.Type) table {
	if v, ok := tableCache.Load(t); ok {
		return v.(table)
	}
	built := buildTable(t)
	actual, _ := tableCache.LoadOrStore(t, built)
	return actual.(table)
}

func buildTable(t *schema.Type) table {
	tbl := make(table)
	for _, f := range t.Fields {
		addFieldActions(tbl, f)
	}
	return tbl
}

func addFieldActions(tbl table, f *schema.Field) {
	if f.Map {
		tbl[wire.Tag(f.ID, wire.Bytes)] = action{field: f, kind: kMap}
		return
	}
	if f.Group {
		wt := wire.StartGroup
		k := kGroup
		if f.Cardinality == schema.Repeated {
			k = kRepeatedGroup
		}
		tbl[wire.Tag(f.ID, wt)] = action{field: f, kind: k}
		return
	}
	if _, isMessage := f.ResolvedType.(*schema.Type); isMessage {
		k := kMessage
		if f.Cardinality == schema.Repeated {
			k = kRepeatedMessage
		}
		tbl[wire.Tag(f.ID, wire.Bytes)] = action{field: f, kind: k}
		return
	}
	// Scalar or enum field (enums decode exactly like int32).
	basicWT := f.BasicWireType
	if f.Cardinality != schema.Repeated {
		tbl[wire.Tag(f.ID, basicWT)] = action{field: f, kind: kScalar}
		return
	}
	// Repeated primitive: accept both the unpacked, per-element form...
	tbl[wire.Tag(f.ID, basicWT)] = action{field: f, kind: kRepeatedScalar}
	// ...and, if the element type is packable, the packed form, at the
	// bytes wire type. A decoder must accept both encodings for a
	// repeated scalar field regardless of which one the schema declared
	// as its preference, since old and new writers may disagree.
	if f.PackedCapable() {
		tbl[wire.Tag(f.ID, wire.Bytes)] = action{field: f, kind: kPackedScalar}
	}
}
