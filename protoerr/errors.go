// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protoerr defines the error kinds raised across the schema loader
// and wire decoder: Truncated and Malformed from the Reader and decoder,
// ProtocolError from a failed required-field check, UnresolvedReference and
// UnresolvableExtensions from schema resolution, and FetchError/ParseError/
// NotSupported from the loader's external collaborators.
package protoerr

import "fmt"

// Kind classifies an error raised by this runtime.
type Kind int

const (
	KindTruncated Kind = iota
	KindMalformed
	KindProtocol
	KindUnresolvedReference
	KindUnresolvableExtensions
	KindFetch
	KindParse
	KindNotSupported
)

func (k Kind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindMalformed:
		return "malformed"
	case KindProtocol:
		return "protocol"
	case KindUnresolvedReference:
		return "unresolved reference"
	case KindUnresolvableExtensions:
		return "unresolvable extensions"
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	case KindNotSupported:
		return "not supported"
	}
	return "unknown"
}

// simpleError is the error type for kinds that carry only a message.
type simpleError struct {
	kind Kind
	msg  string
}

func (e *simpleError) Error() string { return "protoschema: " + e.msg }
func (e *simpleError) Kind() Kind    { return e.kind }

// Is lets errors.Is(err, protoerr.Truncated("")) match on kind rather than
// message text, since callers almost never care about the message.
func (e *simpleError) Is(target error) bool {
	t, ok := target.(*simpleError)
	return ok && t.kind == e.kind
}

// Truncated reports unexpected end of input while reading a field.
func Truncated(what string) error {
	return &simpleError{kind: KindTruncated, msg: fmt.Sprintf("truncated: %s", what)}
}

// Malformed reports a reserved/invalid wire type, an overlong varint, or
// invalid UTF-8 in a string field.
func Malformed(what string) error {
	return &simpleError{kind: KindMalformed, msg: fmt.Sprintf("malformed: %s", what)}
}

// UnresolvedReference reports a symbolic field type name that did not
// resolve against the lexical scope chain.
func UnresolvedReference(name string) error {
	return &simpleError{kind: KindUnresolvedReference, msg: fmt.Sprintf("unresolved reference %q", name)}
}

// Fetch wraps an error reported by the Fetcher collaborator.
func Fetch(path string, cause error) error {
	return &simpleError{kind: KindFetch, msg: fmt.Sprintf("fetch %q: %v", path, cause)}
}

// Parse wraps an error reported by the Parser collaborator.
func Parse(path string, cause error) error {
	return &simpleError{kind: KindParse, msg: fmt.Sprintf("parse %q: %v", path, cause)}
}

// NotSupported reports that LoadSync was called without a synchronous
// filesystem primitive.
var NotSupported = &simpleError{kind: KindNotSupported, msg: "synchronous load unsupported: no Fetcher.FetchSync configured"}

// ProtocolError reports a schema contract violation discovered during
// decode — most commonly a missing required field. Instance is the
// partially-decoded message so callers can inspect what was populated
// before the failure.
type ProtocolError struct {
	Msg      string
	Instance interface{}
}

func (e *ProtocolError) Error() string { return "protoschema: " + e.Msg }
func (e *ProtocolError) Kind() Kind    { return KindProtocol }

// MissingRequired constructs the ProtocolError raised when decode reaches
// the end of a message without having seen one of its required fields.
func MissingRequired(fieldName string, instance interface{}) error {
	return &ProtocolError{Msg: fmt.Sprintf("missing required '%s'", fieldName), Instance: instance}
}

// DeferredExtension names one extension field that never found its target
// type, surfaced inside UnresolvableExtensions.
type DeferredExtension struct {
	ExtendTarget     string // the symbolic name the field's `extend` clause named
	DeclaringParent  string // fully-qualified name of the field's declaring parent
	FieldName        string
}

// UnresolvableExtensions reports that Root.ResolveAll found a non-empty
// deferred-extension list after the full schema tree was resolved.
type UnresolvableExtensions struct {
	Entries []DeferredExtension
}

func (e *UnresolvableExtensions) Error() string {
	return fmt.Sprintf("protoschema: %d unresolvable extension(s)", len(e.Entries))
}
func (e *UnresolvableExtensions) Kind() Kind { return KindUnresolvableExtensions }
