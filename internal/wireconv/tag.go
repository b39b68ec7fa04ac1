// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wireconv implements the tag arithmetic shared by the wire reader
// and the decoder builder.
package wireconv

// Type is a protobuf wire type, one of the five values a tag's low three
// bits can carry.
type Type uint8

const (
	Varint        Type = 0
	Fixed64       Type = 1
	BytesType     Type = 2
	StartGroup    Type = 3
	EndGroup      Type = 4
	Fixed32       Type = 5
	invalidWire6  Type = 6
	invalidWire7  Type = 7
)

// Tag computes (field_id << 3) | wire_type using multiplication rather than
// a shift, so that field ids up to 2^29-1 never overflow into the sign bit
// of a 32-bit signed integer. field_id must be a positive protobuf field
// number; wt must be one of the five wire types above.
func Tag(fieldID int32, wt Type) uint64 {
	return uint64(fieldID)*8 + uint64(wt)
}

// Split decomposes a previously-read tag back into its field number and
// wire type.
func Split(tag uint64) (fieldID int32, wt Type) {
	return int32(tag >> 3), Type(tag & 0x7)
}

// Valid reports whether wt is one of the five wire types the runtime
// understands; reserved wire types 6 and 7 and anything above 5 are
// rejected by skipType per spec.
func (wt Type) Valid() bool {
	return wt <= Fixed32
}
