// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/golang/protoschema/protoerr"
	"github.com/golang/protoschema/schema"
	"github.com/golang/protoschema/schema/protodesc"
)

type stackEntry struct {
	filename string
	weak     bool
}

// pushReverse pushes filenames onto stack in reverse so that popping them
// back off (LIFO) processes them in their original order.
func pushReverse(stack []stackEntry, names []string, weak bool) []stackEntry {
	for i := len(names) - 1; i >= 0; i-- {
		stack = append(stack, stackEntry{filename: names[i], weak: weak})
	}
	return stack
}

// LoadSync synchronously resolves, fetches, and parses files and every
// file transitively imported by them, then fully resolves the resulting
// schema.Root. It fails with protoerr.NotSupported if opts.Fetcher does
// not implement SyncFetcher.
func LoadSync(files []string, opts Options) (*schema.Root, error) {
	syncFetcher, ok := opts.Fetcher.(SyncFetcher)
	if !ok {
		return nil, protoerr.NotSupported
	}
	root := schema.NewRoot()

	var stack []stackEntry
	stack = pushReverse(stack, files, false)

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		canonical := entry.filename
		if name, ok := getBundledFileName(entry.filename); ok {
			canonical = name
		}
		if !root.MarkProcessed(canonical) {
			continue
		}

		if fdp, ok := bundledFileDescriptors[canonical]; ok {
			if err := protodesc.AddFile(root, fdp); err != nil {
				return nil, err
			}
			stack = pushReverse(stack, fdp.GetDependency(), false)
			continue
		}

		src, err := syncFetcher.FetchSync(entry.filename)
		if err != nil {
			if entry.weak {
				opts.logf("protoschema: weak import %q failed to fetch: %v", entry.filename, err)
				continue
			}
			return nil, protoerr.Fetch(entry.filename, err)
		}
		pr, err := opts.Parser.Parse(src, entry.filename, ParseOptions{})
		if err != nil {
			if entry.weak {
				opts.logf("protoschema: weak import %q failed to parse: %v", entry.filename, err)
				continue
			}
			return nil, protoerr.Parse(entry.filename, err)
		}
		if err := protodesc.AddFile(root, pr.Descriptor); err != nil {
			return nil, err
		}
		stack = pushReverse(stack, pr.WeakImports, true)
		stack = pushReverse(stack, pr.Imports, false)
	}

	if err := root.ResolveAll(); err != nil {
		return root, err
	}
	protodesc.ResolveMapFields(root)
	return root, nil
}

// Load asynchronously resolves, fetches, and parses files and every file
// transitively imported by them, then invokes callback exactly once: with
// (nil, err) on the first fatal failure, or (root, nil) once every
// transitively-required strong import has been fetched and parsed.
//
// Concurrency is driven by an errgroup.Group: one g.Go call per file
// fetch, each of which may itself dispatch more g.Go calls for that
// file's discovered imports. g.Wait, run on its own goroutine, blocks
// until every in-flight fetch (including ones dispatched while it was
// already waiting) has completed; a sync.Once around the callback
// guarantees exactly-once delivery even though errgroup's own Wait can in
// principle be observed to return from more than one vantage point under
// a future implementation change.
//
// Fetch-level deduplication (at-most-once fetch per resolved filename) is
// provided by root.MarkProcessed: a repeated request for a filename that
// has already begun processing returns immediately without waiting for the
// first request's result. The fetch-and-parse itself additionally runs
// inside a singleflight.Group keyed on the resolved filename.
func Load(ctx context.Context, files []string, opts Options, callback func(root *schema.Root, err error)) {
	root := schema.NewRoot()

	var (
		once     sync.Once
		fetchGrp singleflight.Group
		g, gctx  = errgroup.WithContext(ctx)
		mu       sync.Mutex // guards root mutation from concurrent parse completions
	)

	finish := func(r *schema.Root, err error) {
		once.Do(func() { callback(r, err) })
	}

	var dispatch func(filename string, weak bool)
	dispatch = func(filename string, weak bool) {
		g.Go(func() error {
			canonical := filename
			if name, ok := getBundledFileName(filename); ok {
				canonical = name
			}

			mu.Lock()
			isNew := root.MarkProcessed(canonical)
			mu.Unlock()
			if !isNew {
				return nil
			}

			if fdp, ok := bundledFileDescriptors[canonical]; ok {
				mu.Lock()
				err := protodesc.AddFile(root, fdp)
				mu.Unlock()
				if err != nil {
					return err
				}
				for _, imp := range fdp.GetDependency() {
					dispatch(imp, false)
				}
				return nil
			}

			_, err, _ := fetchGrp.Do(canonical, func() (interface{}, error) {
				type result struct {
					src []byte
					err error
				}
				done := make(chan result, 1)
				opts.Fetcher.Fetch(gctx, filename, func(src []byte, ferr error) {
					done <- result{src, ferr}
				})
				select {
				case res := <-done:
					if res.err != nil {
						return nil, protoerr.Fetch(filename, res.err)
					}
					pr, perr := opts.Parser.Parse(res.src, filename, ParseOptions{})
					if perr != nil {
						return nil, protoerr.Parse(filename, perr)
					}
					mu.Lock()
					addErr := protodesc.AddFile(root, pr.Descriptor)
					mu.Unlock()
					if addErr != nil {
						return nil, addErr
					}
					for _, imp := range pr.Imports {
						dispatch(imp, false)
					}
					for _, imp := range pr.WeakImports {
						dispatch(imp, true)
					}
					return nil, nil
				case <-gctx.Done():
					return nil, gctx.Err()
				}
			})
			if err != nil {
				if weak {
					opts.logf("protoschema: weak import %q failed: %v", filename, err)
					return nil
				}
				return err
			}
			return nil
		})
	}

	if len(files) == 0 {
		finish(root, nil)
		return
	}
	for _, f := range files {
		dispatch(f, false)
	}

	go func() {
		if err := g.Wait(); err != nil {
			finish(nil, err)
			return
		}
		mu.Lock()
		resolveErr := root.ResolveAll()
		if resolveErr == nil {
			protodesc.ResolveMapFields(root)
		}
		mu.Unlock()
		if resolveErr != nil {
			finish(nil, resolveErr)
			return
		}
		finish(root, nil)
	}()
}
