// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"context"
	"os"
	"path/filepath"
)

// OSFetcher is a convenience Fetcher backed by the local filesystem,
// searching Roots in order for the first path that exists. It is not part
// of the spec's external-collaborator contract — it exists so this module
// is runnable out of the box (see cmd/protoschema-dump) without every
// caller writing their own os.ReadFile wrapper.
type OSFetcher struct {
	Roots []string
}

func (f *OSFetcher) resolve(path string) (string, bool) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		return "", false
	}
	for _, root := range f.Roots {
		full := filepath.Join(root, path)
		if _, err := os.Stat(full); err == nil {
			return full, true
		}
	}
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// FetchSync implements SyncFetcher.
func (f *OSFetcher) FetchSync(path string) ([]byte, error) {
	full, ok := f.resolve(path)
	if !ok {
		full = path
	}
	return os.ReadFile(full)
}

// Fetch implements Fetcher. It performs the read on the calling goroutine
// and invokes callback before returning — real async filesystem I/O gains
// nothing over a synchronous os.ReadFile, but the interface stays
// asynchronous-shaped so a network-backed Fetcher can genuinely suspend.
func (f *OSFetcher) Fetch(ctx context.Context, path string, callback func(src []byte, err error)) {
	b, err := f.FetchSync(path)
	callback(b, err)
}
