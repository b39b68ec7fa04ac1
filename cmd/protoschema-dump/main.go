// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command protoschema-dump loads a descriptor, builds a decoder for a
// named message type, decodes a binary payload against it, and prints the
// result as JSON. It is a diagnostic tool exercising the loader and
// decoder end to end, not a protoc plugin or code generator.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/golang/protoschema/decode"
	"github.com/golang/protoschema/loader"
	"github.com/golang/protoschema/schema"
)

func main() {
	descPath := flag.String("descriptor", "", "path to a binary FileDescriptorProto")
	msgName := flag.String("message", "", "fully-qualified message name to decode")
	payloadPath := flag.String("payload", "", "path to the binary-encoded message to decode")
	flag.Parse()

	if *descPath == "" || *msgName == "" || *payloadPath == "" {
		fmt.Fprintln(os.Stderr, "usage: protoschema-dump -descriptor f.pb -message pkg.Msg -payload msg.bin")
		os.Exit(2)
	}

	root, err := loader.LoadSync([]string{*descPath}, loader.Options{
		Parser:  binaryDescriptorParser{},
		Fetcher: &loader.OSFetcher{Roots: []string{filepath.Dir(*descPath)}},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "load:", err)
		os.Exit(1)
	}

	v, ok := root.Resolve(*msgName)
	if !ok {
		fmt.Fprintln(os.Stderr, "message not found:", *msgName)
		os.Exit(1)
	}
	t, ok := v.(*schema.Type)
	if !ok {
		fmt.Fprintln(os.Stderr, *msgName, "is not a message type")
		os.Exit(1)
	}

	payload, err := os.ReadFile(*payloadPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read payload:", err)
		os.Exit(1)
	}

	msg, err := decode.Decode(root, t, payload, decode.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode:", err)
		os.Exit(1)
	}
	printJSON(msg)
}

func printJSON(m *decode.Message) {
	out := map[string]interface{}{}
	m.Range(func(id int32, v interface{}) bool {
		out[fmt.Sprint(id)] = stringify(v)
		return true
	})
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func stringify(v interface{}) interface{} {
	switch x := v.(type) {
	case *decode.Message:
		if x == nil {
			return nil
		}
		out := map[string]interface{}{}
		x.Range(func(id int32, fv interface{}) bool {
			out[fmt.Sprint(id)] = stringify(fv)
			return true
		})
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = stringify(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = stringify(e)
		}
		return out
	case []byte:
		return fmt.Sprintf("%x", x)
	default:
		return x
	}
}

// binaryDescriptorParser ingests the content the -descriptor flag names as
// a single binary-encoded FileDescriptorProto, bypassing any textual
// .proto grammar — this module has no .proto tokenizer of its own; it
// only consumes already-compiled descriptors.
type binaryDescriptorParser struct{}

func (binaryDescriptorParser) Parse(source []byte, filename string, opts loader.ParseOptions) (loader.ParseResult, error) {
	fdp := &descriptorpb.FileDescriptorProto{}
	if err := proto.Unmarshal(source, fdp); err != nil {
		return loader.ParseResult{}, err
	}
	var weak []string
	var strong []string
	weakSet := make(map[int32]bool)
	for _, idx := range fdp.GetWeakDependency() {
		weakSet[idx] = true
	}
	for i, dep := range fdp.GetDependency() {
		if weakSet[int32(i)] {
			weak = append(weak, dep)
		} else {
			strong = append(strong, dep)
		}
	}
	return loader.ParseResult{Descriptor: fdp, Imports: strong, WeakImports: weak}, nil
}
