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

// Package ast defines the syntax tree the transform operates on.
//
// A file is a flat list of statements. Class declarations are parsed
// structurally (decorators, heritage, members); every other statement is
// carried as an opaque run of source text, except that brace-delimited blocks
// inside such runs are re-scanned so class declarations in nested scopes are
// still visible to the transform. The tree also has a third statement kind,
// VerbatimStmt, holding pre-rendered output text. Downstream passes must
// treat a VerbatimStmt as already-final code and never reanalyze it.
//
// Trees round-trip: serializing an unmodified tree with Fprint reproduces the
// input bytes exactly. Every statement owns its leading trivia (whitespace
// and comments), and the file owns whatever trivia follows the last
// statement, so concatenating the pieces restores the original file.
package ast
