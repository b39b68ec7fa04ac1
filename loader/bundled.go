// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"strings"

	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/apipb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"google.golang.org/protobuf/types/known/sourcecontextpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/typepb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"google.golang.org/protobuf/types/pluginpb"
)

// bundledMarker is the path segment whose last occurrence in a requested
// filename marks the start of the canonical suffix used for bundled-file
// lookup and import dedup, so "third_party/google/protobuf/any.proto" and
// "google/protobuf/any.proto" resolve to the same bundled entry.
const bundledMarker = "google/protobuf/"

// bundledFileDescriptors holds, for every well-known type this runtime
// ships, the compiled *descriptorpb.FileDescriptorProto — derived once at
// package-init time from the real google.golang.org/protobuf known-types
// packages via protodesc.ToFileDescriptorProto, so the bundled table is
// built from the exact same upstream descriptors every generated Go
// binary that imports these packages already carries, and fed through the
// same schema/protodesc.AddFile ingestion path a caller's own descriptors
// use (see SPEC_FULL.md §4 "Domain stack").
var bundledFileDescriptors = buildBundledTable()

func buildBundledTable() map[string]*descriptorpb.FileDescriptorProto {
	known := []protoreflect.FileDescriptor{
		timestamppb.File_google_protobuf_timestamp_proto,
		durationpb.File_google_protobuf_duration_proto,
		anypb.File_google_protobuf_any_proto,
		emptypb.File_google_protobuf_empty_proto,
		structpb.File_google_protobuf_struct_proto,
		fieldmaskpb.File_google_protobuf_field_mask_proto,
		sourcecontextpb.File_google_protobuf_source_context_proto,
		apipb.File_google_protobuf_api_proto,
		typepb.File_google_protobuf_type_proto,
		wrapperspb.File_google_protobuf_wrappers_proto,
		descriptorpb.File_google_protobuf_descriptor_proto,
		pluginpb.File_google_protobuf_compiler_plugin_proto,
	}
	out := make(map[string]*descriptorpb.FileDescriptorProto, len(known))
	for _, fd := range known {
		fdp := protodesc.ToFileDescriptorProto(fd)
		out[fdp.GetName()] = fdp
	}
	return out
}

// getBundledFileName returns the canonical bundled-table key for path
// (the suffix beginning at the last occurrence of "google/protobuf/"), and
// whether that suffix actually names a bundled file. A path containing no
// such marker never matches the bundled shortcut.
func getBundledFileName(path string) (string, bool) {
	idx := strings.LastIndex(path, bundledMarker)
	if idx < 0 {
		return "", false
	}
	suffix := path[idx:]
	_, ok := bundledFileDescriptors[suffix]
	return suffix, ok
}
