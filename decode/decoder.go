// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/golang/protoschema/protoerr"
	"github.com/golang/protoschema/schema"
	"github.com/golang/protoschema/wire"
)

// noGroup is passed as groupID when a decode is not inside a group.
const noGroup = -1

// Decode decodes one message of type t from buf and returns the populated
// Message. This is the top-level entry point; decodeMessage and
// decodeNestedMessage below handle the recursive nested-message and group
// cases.
func Decode(root *schema.Root, t *schema.Type, buf []byte, opts Options) (*Message, error) {
	r := wire.NewReader(buf)
	return decodeMessage(root, t, r, len(buf), noGroup, opts)
}

// DecodeReader is like Decode but reads from an existing Reader, stopping
// at the reader's current length. Useful for callers that already have a
// Reader positioned over a larger stream.
func DecodeReader(root *schema.Root, t *schema.Type, r *wire.Reader, opts Options) (*Message, error) {
	return decodeMessage(root, t, r, r.Len(), noGroup, opts)
}

// decodeMessage is the generic decode loop every message, nested message,
// and group shares. end is the absolute offset (within r's backing buffer)
// at which this message's payload ends; it is ignored when groupID >= 0,
// since a group is instead terminated by its matching end-group tag.
func decodeMessage(root *schema.Root, t *schema.Type, r *wire.Reader, end int, groupID int32, opts Options) (*Message, error) {
	m := newMessage(t)
	tbl := dispatchFor(t)

	for {
		if groupID == noGroup {
			if r.Pos() == end {
				break
			}
			if r.Pos() > end {
				return m, protoerr.Truncated("field overran message boundary")
			}
		} else if r.Done() {
			return m, protoerr.Truncated("unterminated group")
		}

		tagStart := r.Pos()
		fieldID, wt, err := r.Tag()
		if err != nil {
			return m, err
		}

		if groupID != noGroup && wt == wire.EndGroup {
			if fieldID != groupID {
				return m, protoerr.Truncated("mismatched end-group tag")
			}
			break
		}

		tag := wire.Tag(fieldID, wt)
		act, ok := tbl[tag]
		switch {
		case ok:
			// A dispatch-table entry exists both for ordinary fields and
			// for extension fields once their sister field has been
			// attached to t by the deferred-extension protocol (see
			// schema.Root.attach) — apply routes the latter into
			// m.Extensions instead of m.values.
			if err := apply(root, act, r, m, opts); err != nil {
				return m, err
			}
		default:
			if err := r.SkipType(fieldID, wt); err != nil {
				return m, err
			}
			if !opts.DiscardUnknown {
				m.Unknown = append(m.Unknown, r.Buf()[tagStart:r.Pos()]...)
			}
		}

		if groupID == noGroup && r.Pos() > end {
			return m, protoerr.Truncated("field overran message boundary")
		}
	}

	if !opts.AllowPartial {
		for _, f := range t.RequiredFields() {
			if !m.Has(f.ID) {
				return m, protoerr.MissingRequired(f.Name, m)
			}
		}
	}
	return m, nil
}

// apply executes one dispatch-table action against the current tag's
// payload.
func apply(root *schema.Root, act action, r *wire.Reader, m *Message, opts Options) error {
	f := act.field
	switch act.kind {
	case kScalar:
		v, err := readScalar(r, f.Basic)
		if err != nil {
			return err
		}
		m.store(f, v)
		return nil

	case kRepeatedScalar:
		v, err := readScalar(r, f.Basic)
		if err != nil {
			return err
		}
		m.storeRepeated(f, v)
		return nil

	case kPackedScalar:
		start, end, err := r.RawBytes()
		if err != nil {
			return err
		}
		sub := wire.NewReader(r.Buf())
		sub.Seek(start)
		for sub.Pos() < end {
			v, err := readScalar(sub, f.Basic)
			if err != nil {
				return err
			}
			m.storeRepeated(f, v)
		}
		if sub.Pos() != end {
			return protoerr.Truncated("packed payload misaligned")
		}
		return nil

	case kMessage, kRepeatedMessage:
		nested, err := decodeNestedMessage(root, f, r, opts)
		if err != nil {
			return err
		}
		if act.kind == kMessage {
			m.store(f, nested)
		} else {
			m.storeRepeated(f, nested)
		}
		return nil

	case kGroup, kRepeatedGroup:
		nt := f.ResolvedType.(*schema.Type)
		nested, err := decodeMessage(root, nt, r, -1, f.ID, opts)
		if err != nil {
			return err
		}
		if act.kind == kGroup {
			m.store(f, nested)
		} else {
			m.storeRepeated(f, nested)
		}
		return nil

	case kMap:
		key, val, err := decodeMapEntry(root, f, r, opts)
		if err != nil {
			return err
		}
		m.mapFor(f.ID)[key] = val
		return nil
	}
	return protoerr.Malformed("unknown dispatch action")
}

// decodeNestedMessage reads a length-delimited sub-message for a singular
// or repeated message-typed field and recursively decodes it. The payload
// length is checked against the whole backing buffer only; a payload that
// runs past the enclosing message's own end is decoded and then reported as
// Truncated by the enclosing decode loop once its cursor passes that end.
func decodeNestedMessage(root *schema.Root, f *schema.Field, r *wire.Reader, opts Options) (*Message, error) {
	start, end, err := r.RawBytes()
	if err != nil {
		return nil, err
	}
	if end > len(r.Buf()) || end < start {
		return nil, protoerr.Truncated("nested message length exceeds buffer")
	}
	sub := wire.NewReader(r.Buf())
	sub.Seek(start)
	nt := f.ResolvedType.(*schema.Type)
	return decodeMessage(root, nt, sub, end, noGroup, opts)
}
