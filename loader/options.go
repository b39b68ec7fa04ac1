// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

// Options configures a Load or LoadSync call.
type Options struct {
	// Parser turns a fetched file's bytes into a descriptor plus its import
	// lists; the loader then adds that descriptor to the Root. Required.
	Parser Parser

	// Fetcher supplies file bytes, synchronously or asynchronously.
	// Required for any file not satisfied by the bundled shortcut.
	Fetcher Fetcher

	// AllowMissingWeak is not consulted by Load or LoadSync: a weak
	// import's fetch/parse failure is always swallowed (a weak import is
	// allowed to be absent by definition) and always reported to Logf,
	// whatever this flag is set to.
	AllowMissingWeak bool

	// Logf receives load-graph diagnostics, currently the weak-import
	// failures being swallowed. Defaults to a no-op.
	Logf func(format string, args ...interface{})
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}
