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

package ast

// Walk visits every statement in the file in source order, calling fn for
// each. It descends into blocks nested inside raw statements. It does not
// descend into class members or verbatim statements: their contents are
// opaque text. If fn returns an error, the walk stops and that error is
// returned.
func Walk(f *SourceFile, fn func(Statement) error) error {
	return WalkStmts(f.Stmts, fn)
}

// WalkStmts is like Walk but starts from an explicit statement list.
func WalkStmts(stmts []Statement, fn func(Statement) error) error {
	for _, s := range stmts {
		if err := fn(s); err != nil {
			return err
		}
		raw, ok := s.(*RawStmt)
		if !ok {
			continue
		}
		for _, p := range raw.Parts {
			if b, ok := p.(*RawBlock); ok {
				if err := WalkStmts(b.Stmts, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
