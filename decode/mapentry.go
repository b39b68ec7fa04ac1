// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/golang/protoschema/protoerr"
	"github.com/golang/protoschema/schema"
	"github.com/golang/protoschema/wire"
)

// decodeMapEntry decodes a map<K,V> field's wire payload: a length-
// delimited sub-message with exactly two virtual fields, 1 (key) and
// 2 (value). The value's wire type is computed unconditionally from V
// (length-delimited for a message value, basic[V] otherwise) — never from
// K's wire type, since only V determines how field 2 is actually encoded.
func decodeMapEntry(root *schema.Root, f *schema.Field, r *wire.Reader, opts Options) (key, val interface{}, err error) {
	start, end, err := r.RawBytes()
	if err != nil {
		return nil, nil, err
	}
	if end > len(r.Buf()) || end < start {
		return nil, nil, protoerr.Truncated("map entry length exceeds buffer")
	}
	sub := wire.NewReader(r.Buf())
	sub.Seek(start)

	valueType, valueIsMessage := f.ResolvedType.(*schema.Type)
	var haveKey, haveVal bool

	for sub.Pos() < end {
		num, wt, terr := sub.Tag()
		if terr != nil {
			return nil, nil, terr
		}
		switch num {
		case 1:
			k, kerr := readScalar(sub, f.MapKeyBasic)
			if kerr != nil {
				return nil, nil, kerr
			}
			key, haveKey = k, true
		case 2:
			if valueIsMessage {
				vstart, vend, verr := sub.RawBytes()
				if verr != nil {
					return nil, nil, verr
				}
				nested := wire.NewReader(sub.Buf())
				nested.Seek(vstart)
				nv, nerr := decodeMessage(root, valueType, nested, vend, noGroup, opts)
				if nerr != nil {
					return nil, nil, nerr
				}
				val, haveVal = nv, true
			} else {
				v, verr := readScalar(sub, f.Basic)
				if verr != nil {
					return nil, nil, verr
				}
				val, haveVal = v, true
			}
		default:
			if serr := sub.SkipType(num, wt); serr != nil {
				return nil, nil, serr
			}
		}
	}
	if sub.Pos() != end {
		return nil, nil, protoerr.Truncated("map entry payload misaligned")
	}
	if !haveKey {
		key = zeroValue(f.MapKeyBasic)
	}
	if !haveVal {
		if valueIsMessage {
			val = (*Message)(nil)
		} else {
			val = zeroValue(f.Basic)
		}
	}
	return key, val, nil
}
