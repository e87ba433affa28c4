// Copyright 2023-2026 The declower authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package declower provides the entry point for a source-to-source build
// transform: it rewrites class declarations marked with a well-known
// decorator into their lowered, prototype-based form, while leaving every
// other byte of the input untouched.
//
// The pipeline for each source file runs in three phases:
//  1. Parse the file into a loose statement tree. Class declarations are
//     modeled structurally; all other statements are kept as opaque text.
//     Also see: parser.Parse
//  2. For each class carrying the marker decorator, extract the
//     declaration's exact source with the marker removed, and compile that
//     fragment in isolation under a fixed legacy configuration.
//     Also see: legacy.Compile
//  3. Rewrite the emitted property descriptors to be enumerable, and splice
//     the result back into the tree as an opaque, pre-rendered statement.
//     Also see: legacy.Normalize
//
// Serializing a tree that was never rewritten reproduces the input byte for
// byte, and a file with no marked classes passes through unchanged.
//
// # Resolvers
//
// A Resolver is how the transformer locates the source code for the file
// names it is given. SourceResolver loads files from disk; MapResolver
// serves in-memory sources, which is convenient for tests and for build
// hosts that already hold file contents.
//
// # Transformer
//
// A Transformer accepts a list of file names and produces one Result per
// file. Only the Resolver field is required. A minimal Transformer that
// reads files relative to the current working directory:
//
//	transformer := declower.Transformer{
//	    Resolver: &declower.SourceResolver{},
//	}
//
// This minimal Transformer uses default parallelism, equal to the number of
// CPU cores detected; looks for the default marker name; and fails fast at
// the first error. All of these aspects can be customized by setting other
// fields.
package declower
