// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "github.com/golang/protoschema/wire"

// Basic identifies one of the protobuf primitive scalar types (everything
// that is not a message, enum, or group).
type Basic uint8

const (
	BasicInvalid Basic = iota
	BasicDouble
	BasicFloat
	BasicInt32
	BasicInt64
	BasicUint32
	BasicUint64
	BasicSint32
	BasicSint64
	BasicFixed32
	BasicFixed64
	BasicSfixed32
	BasicSfixed64
	BasicBool
	BasicString
	BasicBytes
)

// basicNames maps the declared-type spelling used in .proto source (and in
// FieldDescriptorProto.type_name-free fields) to a Basic.
var basicNames = map[string]Basic{
	"double":   BasicDouble,
	"float":    BasicFloat,
	"int32":    BasicInt32,
	"int64":    BasicInt64,
	"uint32":   BasicUint32,
	"uint64":   BasicUint64,
	"sint32":   BasicSint32,
	"sint64":   BasicSint64,
	"fixed32":  BasicFixed32,
	"fixed64":  BasicFixed64,
	"sfixed32": BasicSfixed32,
	"sfixed64": BasicSfixed64,
	"bool":     BasicBool,
	"string":   BasicString,
	"bytes":    BasicBytes,
}

// LookupBasic returns the Basic for a declared primitive type name, and
// false if name does not name a primitive (i.e. it names a message or enum
// and must instead be resolved through the lexical scope chain).
func LookupBasic(name string) (Basic, bool) {
	b, ok := basicNames[name]
	return b, ok
}

// WireType returns the wire type used to encode a value of this Basic in
// its unpacked (per-element) form.
func (b Basic) WireType() wire.Type {
	switch b {
	case BasicInt32, BasicInt64, BasicUint32, BasicUint64, BasicSint32, BasicSint64, BasicBool:
		return wire.Varint
	case BasicFixed64, BasicSfixed64, BasicDouble:
		return wire.Fixed64
	case BasicFixed32, BasicSfixed32, BasicFloat:
		return wire.Fixed32
	case BasicString, BasicBytes:
		return wire.Bytes
	}
	return wire.Varint
}

// Packable reports whether repeated fields of this Basic may use the packed
// wire encoding. Strings and bytes are never packable.
func (b Basic) Packable() bool {
	switch b {
	case BasicString, BasicBytes, BasicInvalid:
		return false
	}
	return true
}

func (b Basic) String() string {
	for name, v := range basicNames {
		if v == b {
			return name
		}
	}
	return "invalid"
}
