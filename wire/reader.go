// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements a cursor over an immutable byte buffer that
// decodes the base Protocol Buffers wire-format primitives: varints, fixed
// 32/64-bit values, and length-delimited bytes/strings. It underlies the
// decoder builder in package decode.
package wire

import (
	"math"
	"unicode/utf8"

	"github.com/golang/protoschema/internal/wireconv"
	"github.com/golang/protoschema/protoerr"
)

// Type re-exports the wire-type enum so callers of this package do not also
// need to import internal/wireconv.
type Type = wireconv.Type

const (
	Varint     = wireconv.Varint
	Fixed64    = wireconv.Fixed64
	Bytes      = wireconv.BytesType
	StartGroup = wireconv.StartGroup
	EndGroup   = wireconv.EndGroup
	Fixed32    = wireconv.Fixed32
)

// Tag computes the wire tag for a field id and wire type.
func Tag(fieldID int32, wt Type) uint64 { return wireconv.Tag(fieldID, wt) }

// Reader is a cursor over an immutable byte slice. It borrows the slice; it
// never copies it. The zero value is not usable; construct with NewReader.
type Reader struct {
	buf []byte
	pos int
}

// NewReader constructs a Reader over buf. buf is not copied; the caller must
// not mutate it while the Reader (or any Message decoded through it that
// aliases its bytes) is in use.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the length of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Done reports whether the cursor has reached the end of the buffer.
func (r *Reader) Done() bool { return r.pos >= len(r.buf) }

// Tag reads a varint tag and splits it into a field number and wire type.
func (r *Reader) Tag() (fieldID int32, wt Type, err error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, 0, err
	}
	id, w := wireconv.Split(v)
	return id, w, nil
}

// Uint32 reads a base-128 varint and truncates it to 32 bits.
func (r *Reader) Uint32() (uint32, error) {
	v, err := r.Uint64()
	return uint32(v), err
}

// Int32 reads a varint as a two's-complement 32-bit integer (protobuf int32
// fields are always varint-encoded as 64 bits on the wire, even though the
// Go value is 32 bits).
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint64()
	return int32(int64(v)), err
}

// Sint32 reads a ZigZag-encoded signed 32-bit integer.
func (r *Reader) Sint32() (int32, error) {
	v, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	return int32(v>>1) ^ -int32(v&1), nil
}

// Uint64 reads a base-128, little-endian-group varint of at most 10 bytes.
func (r *Reader) Uint64() (uint64, error) {
	var x uint64
	var shift uint
	for i := 0; ; i++ {
		if i == 10 {
			return 0, protoerr.Malformed("varint exceeds 10 bytes")
		}
		if r.pos >= len(r.buf) {
			return 0, protoerr.Truncated("varint")
		}
		b := r.buf[r.pos]
		r.pos++
		x |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return x, nil
		}
		shift += 7
	}
}

// Int64 reads a varint as a 64-bit two's-complement integer.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Sint64 reads a ZigZag-encoded signed 64-bit integer.
func (r *Reader) Sint64() (int64, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	return int64(v>>1) ^ -int64(v&1), nil
}

// Bool reads a varint and reports whether it is non-zero.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint64()
	return v != 0, err
}

// Fixed32 reads 4 little-endian bytes.
func (r *Reader) Fixed32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, protoerr.Truncated("fixed32")
	}
	b := r.buf[r.pos : r.pos+4]
	r.pos += 4
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// Sfixed32 reads a signed 4-byte little-endian integer.
func (r *Reader) Sfixed32() (int32, error) {
	v, err := r.Fixed32()
	return int32(v), err
}

// Float reads an IEEE 754 single-precision float.
func (r *Reader) Float() (float32, error) {
	v, err := r.Fixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Fixed64 reads 8 little-endian bytes.
func (r *Reader) Fixed64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, protoerr.Truncated("fixed64")
	}
	b := r.buf[r.pos : r.pos+8]
	r.pos += 8
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v, nil
}

// Sfixed64 reads a signed 8-byte little-endian integer.
func (r *Reader) Sfixed64() (int64, error) {
	v, err := r.Fixed64()
	return int64(v), err
}

// Double reads an IEEE 754 double-precision float.
func (r *Reader) Double() (float64, error) {
	v, err := r.Fixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Bytes reads a length-prefixed byte string and returns a copy of it: the
// returned slice does not alias r's backing buffer, so decoded messages
// outlive the Reader they were built from. See decode.Message for the
// field-ownership policy this implements.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) || int(n) < 0 {
		return nil, protoerr.Truncated("length-delimited payload")
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// RawBytes reads a length-prefixed byte string and returns the raw sub-slice
// bounds without copying, for callers (the decoder builder) that immediately
// recurse into a nested decode over the same backing buffer.
func (r *Reader) RawBytes() (start, end int, err error) {
	n, err := r.Uint32()
	if err != nil {
		return 0, 0, err
	}
	if r.pos+int(n) > len(r.buf) || int(n) < 0 {
		return 0, 0, protoerr.Truncated("length-delimited payload")
	}
	start, end = r.pos, r.pos+int(n)
	r.pos = end
	return start, end, nil
}

// Buf returns the underlying buffer the Reader was constructed with, for
// recursive decoders that need to slice it directly.
func (r *Reader) Buf() []byte { return r.buf }

// Seek repositions the cursor. Used to position a fresh Reader at a nested
// message's length-delimited payload before recursing into it.
func (r *Reader) Seek(pos int) { r.pos = pos }

// String reads a length-prefixed, UTF-8-validated string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", protoerr.Malformed("invalid UTF-8 in string field")
	}
	return string(b), nil
}

// SkipType advances the cursor past a field's payload for the given wire
// type, which the caller obtained from a tag belonging to a field it does
// not recognize. Wire type 3 (start-group) is skipped recursively until the
// matching end-group tag carrying the same field id is observed.
func (r *Reader) SkipType(fieldID int32, wt Type) error {
	switch wt {
	case Varint:
		_, err := r.Uint64()
		return err
	case Fixed64:
		_, err := r.Fixed64()
		return err
	case Bytes:
		_, err := r.Bytes()
		return err
	case StartGroup:
		for {
			if r.Done() {
				return protoerr.Truncated("unterminated group")
			}
			innerID, innerWT, err := r.Tag()
			if err != nil {
				return err
			}
			if innerWT == EndGroup {
				if innerID != fieldID {
					return protoerr.Truncated("mismatched end-group tag")
				}
				return nil
			}
			if err := r.SkipType(innerID, innerWT); err != nil {
				return err
			}
		}
	case EndGroup:
		// An end-group tag observed outside of SkipType's own group-scan
		// loop (i.e. as a genuinely unknown field) is malformed: there is
		// no matching start-group to close.
		return protoerr.Malformed("unexpected end-group tag")
	default:
		return protoerr.Malformed("reserved or invalid wire type")
	}
}
