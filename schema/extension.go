// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// tryAttachExtension implements the deferred-extension protocol: look up
// f.Extend in scope; on success, construct a sister field inside the
// extended Type carrying f's id, type, cardinality, and options,
// cross-link the two fields, and report success. On failure, push f onto
// root.Deferred so a later AddType/AddEnum retry can pick it up — the
// extended type may simply not have loaded yet.
func (r *Root) tryAttachExtension(f *Field, scope *Namespace) bool {
	if f.ExtensionField != nil {
		return true // already attached; idempotent
	}
	v, ok := scope.Resolve(f.Extend)
	if !ok {
		r.pushDeferred(f)
		return false
	}
	target, ok := v.(*Type)
	if !ok {
		r.pushDeferred(f)
		return false
	}
	return r.attach(f, target)
}

// attach performs the attachment once the target Type is in hand. If the
// target already has a field by this name, attach is a no-op success:
// retryDeferred may call this more than once for the same field, and a
// second attach must not duplicate the sister field or its cross-links.
func (r *Root) attach(f *Field, target *Type) bool {
	if existing, ok := target.FieldByName(extensionFieldName(f)); ok {
		f.ExtensionField = existing
		existing.DeclaringField = f
		r.removeDeferred(f)
		return true
	}
	sister := &Field{
		Name:          extensionFieldName(f),
		ID:            f.ID,
		TypeName:      f.TypeName,
		Cardinality:   f.Cardinality,
		Packed:        f.Packed,
		Options:       f.Options,
		Basic:         f.Basic,
		ResolvedType:  f.ResolvedType,
		BasicWireType: f.BasicWireType,
	}
	if !target.AddField(sister) {
		// id collision: extension cannot attach, and will never resolve by
		// retrying, but we still surface it the same way so the caller sees
		// a diagnosable UnresolvableExtensions entry rather than a silent
		// drop.
		r.pushDeferred(f)
		return false
	}
	sister.DeclaringField = f
	f.ExtensionField = sister
	r.removeDeferred(f)
	return true
}

// extensionFieldName is the sister field's name inside the extended type:
// the extending field's own fully-qualified name, so two different files
// extending the same message with unrelated fields can never collide on
// name even though both attach to the same Type.
func extensionFieldName(f *Field) string {
	if f.Parent != nil {
		return f.Parent.FullName() + "." + f.Name
	}
	return f.Name
}

func (r *Root) pushDeferred(f *Field) {
	for _, d := range r.Deferred {
		if d == f {
			return
		}
	}
	r.Deferred = append(r.Deferred, f)
}

func (r *Root) removeDeferred(f *Field) {
	for i, d := range r.Deferred {
		if d == f {
			r.Deferred = append(r.Deferred[:i], r.Deferred[i+1:]...)
			return
		}
	}
}

// retryDeferred re-attempts every entry currently on r.Deferred, removing
// those that now succeed. It is invoked whenever a new Type or Enum is
// added to the tree, since that addition may be the target one of the
// deferred extensions was waiting for.
func (r *Root) retryDeferred() {
	pending := append([]*Field(nil), r.Deferred...)
	for _, f := range pending {
		if f.Parent != nil {
			r.tryAttachExtension(f, f.Parent.Namespace)
		} else {
			r.tryAttachExtension(f, &r.Namespace)
		}
	}
}
