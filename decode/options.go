// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

// Options configures a decode call. The zero value is the strict default:
// required fields are checked, and unknown fields are retained on
// Message.Unknown rather than discarded.
type Options struct {
	// AllowPartial suppresses the missing-required-field check that
	// otherwise runs once the decode loop terminates.
	AllowPartial bool

	// DiscardUnknown drops unrecognized fields instead of accumulating
	// their raw bytes on Message.Unknown.
	DiscardUnknown bool
}
