// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// OneOf is a named group of fields on a Type of which at most one may be
// set at a time. Decoding a field belonging to a oneof clears any other
// field of the same oneof previously set on the message (see
// decode.Message.set).
type OneOf struct {
	Name   string
	Parent *Type
	Fields []*Field
}
