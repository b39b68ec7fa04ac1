// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/golang/protoschema/schema"
)

// fakeFile describes one in-memory .proto-equivalent file for the fake
// Parser/Fetcher pair below.
type fakeFile struct {
	name    string
	pkg     string
	message string
	imports []string
	weak    []string
}

func fileDescriptor(f fakeFile) *descriptorpb.FileDescriptorProto {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(f.name),
		Package: proto.String(f.pkg),
		MessageType: []*descriptorpb.DescriptorProto{
			{Name: proto.String(f.message)},
		},
		Dependency: append(append([]string{}, f.imports...), f.weak...),
	}
	for i := range f.weak {
		fdp.WeakDependency = append(fdp.WeakDependency, int32(len(f.imports)+i))
	}
	return fdp
}

// fakeParser treats the fetched bytes as an index into a table of
// descriptors keyed by filename, so the fake Fetcher can just hand back the
// filename as its own "content".
type fakeParser struct {
	files map[string]fakeFile
}

func (p fakeParser) Parse(source []byte, filename string, opts ParseOptions) (ParseResult, error) {
	f := p.files[string(source)]
	return ParseResult{Descriptor: fileDescriptor(f), Imports: f.imports, WeakImports: f.weak}, nil
}

// fakeSyncFetcher returns the filename itself as the "source" fakeParser
// expects.
type fakeSyncFetcher struct {
	fetchCount int32
}

func (f *fakeSyncFetcher) FetchSync(path string) ([]byte, error) {
	atomic.AddInt32(&f.fetchCount, 1)
	return []byte(path), nil
}

func (f *fakeSyncFetcher) Fetch(ctx context.Context, path string, callback func([]byte, error)) {
	atomic.AddInt32(&f.fetchCount, 1)
	go callback([]byte(path), nil)
}

func TestLoadSyncDedupesImports(t *testing.T) {
	files := map[string]fakeFile{
		"a.proto": {name: "a.proto", pkg: "a", message: "A", imports: []string{"shared.proto"}},
		"b.proto": {name: "b.proto", pkg: "b", message: "B", imports: []string{"shared.proto"}},
		"shared.proto": {name: "shared.proto", pkg: "shared", message: "Shared"},
	}
	fetcher := &fakeSyncFetcher{}
	root, err := LoadSync([]string{"a.proto", "b.proto"}, Options{
		Parser:  fakeParser{files: files},
		Fetcher: fetcher,
	})
	if err != nil {
		t.Fatal(err)
	}
	if fetcher.fetchCount != 3 {
		t.Errorf("fetchCount = %d, want 3 (a, b, shared fetched once each)", fetcher.fetchCount)
	}
	if _, ok := root.Resolve("a.A"); !ok {
		t.Error("a.A not found")
	}
	if _, ok := root.Resolve("shared.Shared"); !ok {
		t.Error("shared.Shared not found")
	}
}

func TestLoadSyncWithoutSyncFetcherFails(t *testing.T) {
	asyncOnly := struct{ Fetcher }{}
	_, err := LoadSync([]string{"a.proto"}, Options{Parser: fakeParser{}, Fetcher: asyncOnly})
	if err == nil {
		t.Fatal("expected NotSupported error")
	}
}

func TestLoadSyncSwallowsWeakImportFailure(t *testing.T) {
	files := map[string]fakeFile{
		"a.proto": {name: "a.proto", pkg: "a", message: "A", weak: []string{"missing.proto"}},
	}
	fetcher := &failingFetcher{fail: map[string]bool{"missing.proto": true}, files: files}
	root, err := LoadSync([]string{"a.proto"}, Options{Parser: fakeParser{files: files}, Fetcher: fetcher})
	if err != nil {
		t.Fatalf("weak import failure should not be fatal: %v", err)
	}
	if _, ok := root.Resolve("a.A"); !ok {
		t.Error("a.A not found")
	}
}

type failingFetcher struct {
	fail  map[string]bool
	files map[string]fakeFile
}

func (f *failingFetcher) FetchSync(path string) ([]byte, error) {
	if f.fail[path] {
		return nil, errFetchFailed
	}
	return []byte(path), nil
}

func (f *failingFetcher) Fetch(ctx context.Context, path string, callback func([]byte, error)) {
	b, err := f.FetchSync(path)
	callback(b, err)
}

var errFetchFailed = errors.New("fake fetch failure")

func TestLoadAsyncExactlyOnceCallback(t *testing.T) {
	files := map[string]fakeFile{
		"a.proto":      {name: "a.proto", pkg: "a", message: "A", imports: []string{"shared.proto"}},
		"b.proto":      {name: "b.proto", pkg: "b", message: "B", imports: []string{"shared.proto"}},
		"shared.proto": {name: "shared.proto", pkg: "shared", message: "Shared"},
	}
	fetcher := &fakeSyncFetcher{}

	var calls int32
	var wg sync.WaitGroup
	wg.Add(1)
	var gotRoot *schema.Root
	var gotErr error
	Load(context.Background(), []string{"a.proto", "b.proto"}, Options{
		Parser:  fakeParser{files: files},
		Fetcher: fetcher,
	}, func(root *schema.Root, err error) {
		if atomic.AddInt32(&calls, 1) > 1 {
			t.Error("callback invoked more than once")
		}
		gotRoot, gotErr = root, err
		wg.Done()
	})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if gotRoot == nil {
		t.Fatal("expected non-nil root")
	}
	if fetcher.fetchCount != 3 {
		t.Errorf("fetchCount = %d, want 3 (shared.proto deduped by resolved filename)", fetcher.fetchCount)
	}
}
