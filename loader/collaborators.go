// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader implements the root loader: file ingestion, bundled
// well-known-type shortcuts, synchronous and asynchronous import-graph
// traversal, and the deferred-extension retry protocol. It orchestrates
// the external Parser and Fetcher collaborators declared below; it does
// not implement either of them.
package loader

import (
	"context"

	"google.golang.org/protobuf/types/descriptorpb"
)

// ParseResult is what a Parser collaborator reports back about one parsed
// file: the filenames it imports (strong and weak), and enough metadata to
// resolve them.
type ParseResult struct {
	Descriptor   *descriptorpb.FileDescriptorProto
	Imports      []string
	WeakImports  []string
}

// Parser is the external .proto-tokenizer/JSON-descriptor collaborator
// this package delegates to; it is not implemented here. Callers supply
// one, whether backed by a real .proto grammar, a descriptorpb-JSON
// unmarshal (schema/protodesc.AddFile is the matching ingestion half), or
// a binary FileDescriptorSet entry.
type Parser interface {
	Parse(source []byte, filename string, opts ParseOptions) (ParseResult, error)
}

// ParseOptions configures a Parser call. Kept intentionally small and
// opaque to this package: the parser collaborator owns its own knobs.
type ParseOptions struct {
	KeepSource bool
}

// Fetcher is the external filesystem/network I/O collaborator, asynchronous
// half: it must complete by invoking callback exactly once.
type Fetcher interface {
	Fetch(ctx context.Context, path string, callback func(src []byte, err error))
}

// SyncFetcher is the synchronous counterpart a Fetcher may additionally
// implement. LoadSync type-asserts for it and fails with
// protoerr.NotSupported when the configured Fetcher does not implement it,
// since a synchronous load has no way to block on an asynchronous-only
// fetch without its own event loop.
type SyncFetcher interface {
	FetchSync(path string) ([]byte, error)
}
