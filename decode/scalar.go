// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/golang/protoschema/protoerr"
	"github.com/golang/protoschema/schema"
	"github.com/golang/protoschema/wire"
)

// readScalar decodes one value of the given Basic type from r. It is used
// both for a field's own tag payload and for each element inside a packed
// run, so a packable field transparently accepts either encoding.
func readScalar(r *wire.Reader, b schema.Basic) (interface{}, error) {
	switch b {
	case schema.BasicInt32:
		return r.Int32()
	case schema.BasicInt64:
		return r.Int64()
	case schema.BasicUint32:
		return r.Uint32()
	case schema.BasicUint64:
		return r.Uint64()
	case schema.BasicSint32:
		return r.Sint32()
	case schema.BasicSint64:
		return r.Sint64()
	case schema.BasicBool:
		return r.Bool()
	case schema.BasicFixed32:
		return r.Fixed32()
	case schema.BasicSfixed32:
		return r.Sfixed32()
	case schema.BasicFloat:
		return r.Float()
	case schema.BasicFixed64:
		return r.Fixed64()
	case schema.BasicSfixed64:
		return r.Sfixed64()
	case schema.BasicDouble:
		return r.Double()
	case schema.BasicString:
		return r.String()
	case schema.BasicBytes:
		return r.Bytes()
	}
	return nil, protoerr.Malformed("unsupported basic type")
}

// zeroValue returns the default value for a Basic, used for a map's key
// (or, for non-message values, its value) when the corresponding
// sub-message field was absent from the wire.
func zeroValue(b schema.Basic) interface{} {
	switch b {
	case schema.BasicInt32, schema.BasicSint32, schema.BasicSfixed32:
		return int32(0)
	case schema.BasicInt64, schema.BasicSint64, schema.BasicSfixed64:
		return int64(0)
	case schema.BasicUint32, schema.BasicFixed32:
		return uint32(0)
	case schema.BasicUint64, schema.BasicFixed64:
		return uint64(0)
	case schema.BasicBool:
		return false
	case schema.BasicFloat:
		return float32(0)
	case schema.BasicDouble:
		return float64(0)
	case schema.BasicString:
		return ""
	case schema.BasicBytes:
		return []byte(nil)
	}
	return nil
}
