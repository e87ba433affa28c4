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

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Fprint serializes the file back to source text. For a tree that has not
// been modified, the output is byte-identical to the parsed input.
func Fprint(w io.Writer, f *SourceFile) error {
	var sb strings.Builder
	printStmts(&sb, f.Stmts)
	sb.WriteString(f.EOFTrivia)
	_, err := io.WriteString(w, sb.String())
	return err
}

// PrintString is a convenience wrapper around Fprint.
func PrintString(f *SourceFile) string {
	var sb strings.Builder
	printStmts(&sb, f.Stmts)
	sb.WriteString(f.EOFTrivia)
	return sb.String()
}

func printStmts(sb *strings.Builder, stmts []Statement) {
	for _, s := range stmts {
		sb.WriteString(s.Leading())
		switch s := s.(type) {
		case *ClassDecl:
			sb.WriteString(s.Raw)
		case *RawStmt:
			for _, p := range s.Parts {
				switch p := p.(type) {
				case RawText:
					sb.WriteString(string(p))
				case *RawBlock:
					printStmts(sb, p.Stmts)
					sb.WriteString(p.Trailing)
				}
			}
		case *VerbatimStmt:
			sb.WriteString(s.Text)
		default:
			panic(fmt.Sprintf("unknown statement type %T", s))
		}
	}
}

// PrintStripped returns the declaration's exact source text with every
// decorator of the given name removed, whether attached to the class itself
// or to one of its members. Removal is structural: the decorator's recorded
// span is cut from the text, along with trailing spaces and, when the
// decorator stood on a line of its own, the line break. Everything else,
// including other decorators and member bodies, is preserved byte-for-byte.
func (c *ClassDecl) PrintStripped(name string) string {
	var cuts [][2]int
	collect := func(decs []*Decorator) {
		for _, d := range decs {
			if d.Name != name {
				continue
			}
			start, end := growCut(c.Raw, d.PosStart.Offset-c.RawOffset, d.PosEnd.Offset-c.RawOffset)
			cuts = append(cuts, [2]int{start, end})
		}
	}
	collect(c.Decorators)
	for _, m := range c.Members {
		collect(m.Decorators)
	}
	if len(cuts) == 0 {
		return c.Raw
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i][0] < cuts[j][0] })

	var sb strings.Builder
	prev := 0
	for _, cut := range cuts {
		if cut[0] < prev {
			cut[0] = prev
		}
		if cut[1] < cut[0] {
			cut[1] = cut[0]
		}
		sb.WriteString(c.Raw[prev:cut[0]])
		prev = cut[1]
	}
	sb.WriteString(c.Raw[prev:])
	return sb.String()
}

// growCut widens a decorator's cut range: trailing horizontal whitespace is
// always dropped, and when the decorator occupied a whole line, the line
// break and its indentation go with it.
func growCut(raw string, start, end int) (int, int) {
	i := end
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	j := start
	for j > 0 && (raw[j-1] == ' ' || raw[j-1] == '\t') {
		j--
	}
	if j == 0 || raw[j-1] == '\n' {
		nl := i
		if nl < len(raw) && raw[nl] == '\r' {
			nl++
		}
		if nl < len(raw) && raw[nl] == '\n' {
			return j, nl + 1
		}
	}
	return start, i
}
