// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "sync"

// Root is the origin of the schema tree and owns the state that spans the
// whole load: the type registry (an ordered vector of resolved Types,
// indexed by Type.Index), the deferred-extension worklist, and the set of
// already-processed filenames used for import dedup.
type Root struct {
	Namespace

	mu       sync.Mutex
	types    []*Type // TypeRegistry: index -> *Type
	Deferred []*Field
	Files    map[string]bool // resolved filename -> processed
}

// NewRoot constructs an empty Root.
func NewRoot() *Root {
	r := &Root{Files: make(map[string]bool)}
	r.Namespace.Name = ""
	return r
}

// indexOf assigns t a stable index on first use and returns it. A field
// pointing at a not-yet-fully-processed type (the recursive-message case,
// where a message contains a field of its own type) still gets a valid,
// stable *Type pointer out of Resolve immediately, since the type was
// already registered in the tree before its fields are walked; the index
// exists to give every registered Type a unique, order-independent
// identity for callers that need one (e.g. memoizing per-type state
// without hashing the Type value itself), not to indirect field access.
func (r *Root) indexOf(t *Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.Index >= 0 {
		return t.Index
	}
	t.Index = len(r.types)
	r.types = append(r.types, t)
	return t.Index
}

// AddType registers a newly-declared message type under ns and assigns it
// a registry index. It also retries any deferred extensions, since a newly
// added Type may be the target one of them was waiting for.
func (r *Root) AddType(ns *Namespace, t *Type) bool {
	if !ns.Add(t.Name, t) {
		return false
	}
	r.indexOf(t)
	r.retryDeferred()
	return true
}

// AddEnum registers a newly-declared enum under ns.
func (r *Root) AddEnum(ns *Namespace, e *Enum) bool {
	e.Parent = ns
	if !ns.Add(e.Name, e) {
		return false
	}
	r.retryDeferred()
	return true
}

// MarkProcessed records resolvedName as processed and reports whether it
// was newly recorded (false means a caller already began — or finished —
// processing this file, so the caller should treat this as a no-op rather
// than an error: two files importing a shared dependency must not double
// its declarations).
func (r *Root) MarkProcessed(resolvedName string) (isNew bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Files[resolvedName] {
		return false
	}
	r.Files[resolvedName] = true
	return true
}
