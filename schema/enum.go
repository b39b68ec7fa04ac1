// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// Enum is a name-to-integer mapping. Enum fields are always decoded like
// int32 on the wire; a numeric value with no matching name is preserved
// rather than rejected.
type Enum struct {
	Name    string
	Parent  *Namespace
	Values  map[string]int32
	byValue map[int32]string // first name registered for a value; aliases keep the first
}

func (e *Enum) isElement() {}

// FullName returns the dotted, fully-qualified name of this enum.
func (e *Enum) FullName() string { return fullName(e.Parent, e.Name) }

// Add registers a name/value pair. If allowAlias is false and value already
// has a name, Add reports false without registering the duplicate.
func (e *Enum) Add(name string, value int32, allowAlias bool) bool {
	if e.Values == nil {
		e.Values = make(map[string]int32)
		e.byValue = make(map[int32]string)
	}
	if _, exists := e.byValue[value]; exists && !allowAlias {
		return false
	}
	e.Values[name] = value
	if _, exists := e.byValue[value]; !exists {
		e.byValue[value] = name
	}
	return true
}

// NameOf returns the canonical (first-registered) name for value, or ""
// if value has no registered name — which is not an error; unknown enum
// numbers are preserved by the decoder as-is.
func (e *Enum) NameOf(value int32) string { return e.byValue[value] }
