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

// Package legacy is the nested compiler: it compiles an extracted fragment,
// in isolation, to the fixed legacy output shape. The nested pass knows
// nothing about the enclosing file; free identifiers in the fragment are
// left as written and resolve wherever the emission is later spliced.
package legacy

import (
	"fmt"
	"strings"

	"github.com/declower/declower/ast"
	"github.com/declower/declower/parser"
	"github.com/declower/declower/reporter"
)

// Warning is a non-fatal diagnostic from the nested compile: a construct the
// legacy target cannot fully honor was downgraded or dropped. Positions are
// relative to the fragment, not the enclosing file.
type Warning struct {
	Pos     ast.SourcePos
	Message string
}

// Compile compiles fragment under the given configuration and returns the
// emitted text. The fragment is parsed standalone; a syntactically invalid
// fragment is a hard error carrying a fragment-relative position. filename
// is used only for positions in errors and warnings.
//
// Class declarations in the fragment (including ones in nested blocks) are
// lowered to the prototype shape; all other statements pass through
// byte-for-byte, with no module wrapping and no injected helpers.
func Compile(filename, fragment string, cfg Config) (string, []Warning, error) {
	if err := cfg.validate(); err != nil {
		return "", nil, err
	}

	handler := reporter.NewHandler(nil)
	file, err := parser.Parse(filename, []byte(fragment), handler)
	if err != nil {
		return "", nil, err
	}

	var warnings []Warning
	var sb strings.Builder
	lowerStmts(&sb, file.Stmts, &warnings)
	sb.WriteString(file.EOFTrivia)
	return sb.String(), warnings, nil
}

func lowerStmts(sb *strings.Builder, stmts []ast.Statement, warnings *[]Warning) {
	for _, s := range stmts {
		sb.WriteString(s.Leading())
		switch s := s.(type) {
		case *ast.ClassDecl:
			e := &emitter{warn: func(format string, args ...any) {
				*warnings = append(*warnings, Warning{Pos: s.Start(), Message: fmt.Sprintf(format, args...)})
			}}
			e.emitClass(s)
			// The emitter always ends with a line break; the statement's
			// spacing relative to its neighbors lives in their trivia, so
			// the break would double up when spliced back.
			sb.WriteString(strings.TrimSuffix(e.sb.String(), "\n"))
		case *ast.RawStmt:
			for _, p := range s.Parts {
				switch p := p.(type) {
				case ast.RawText:
					sb.WriteString(string(p))
				case *ast.RawBlock:
					lowerStmts(sb, p.Stmts, warnings)
					sb.WriteString(p.Trailing)
				}
			}
		case *ast.VerbatimStmt:
			sb.WriteString(s.Text)
		}
	}
}
