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

package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/declower/declower/ast"
	"github.com/declower/declower/reporter"
)

// lexer is a cursor over the raw bytes of one source file. It does not
// produce a token stream; the parser drives it directly, consuming trivia,
// identifiers, strings, and balanced groups as needed. Line starts are
// recorded in the FileInfo as the cursor first passes them, so the parser may
// rewind and re-scan freely.
type lexer struct {
	data    []byte
	pos     int
	info    *ast.FileInfo
	handler *reporter.Handler

	// High-water mark of recorded line starts, so rewinding and re-advancing
	// does not record a line twice.
	maxLine int
}

func newLexer(filename string, data []byte, handler *reporter.Handler) *lexer {
	return &lexer{
		data:    data,
		info:    ast.NewFileInfo(filename, data),
		handler: handler,
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.data)
}

// at returns the byte at the given lookahead distance, or 0 past EOF.
func (l *lexer) at(i int) byte {
	if l.pos+i >= len(l.data) {
		return 0
	}
	return l.data[l.pos+i]
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.data); i++ {
		if l.data[l.pos] == '\n' && l.pos+1 > l.maxLine {
			l.maxLine = l.pos + 1
			if l.maxLine <= len(l.data) {
				l.info.AddLine(l.maxLine)
			}
		}
		l.pos++
	}
}

func (l *lexer) mark() int {
	return l.pos
}

func (l *lexer) rewind(m int) {
	l.pos = m
}

func (l *lexer) sourcePos() ast.SourcePos {
	return l.info.SourcePos(l.pos)
}

func (l *lexer) errUnterminated(offset int, what string) error {
	if err := l.handler.HandleErrorf(l.info.SourcePos(offset), "unterminated %s", what); err != nil {
		return err
	}
	return l.handler.Err()
}

// skipTrivia consumes whitespace and comments and returns the consumed text.
func (l *lexer) skipTrivia() (string, error) {
	start := l.pos
	for !l.eof() {
		switch c := l.at(0); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance(1)
		case c == '/' && l.at(1) == '/':
			for !l.eof() && l.at(0) != '\n' {
				l.advance(1)
			}
		case c == '/' && l.at(1) == '*':
			commentStart := l.pos
			l.advance(2)
			for {
				if l.eof() {
					return "", l.errUnterminated(commentStart, "block comment")
				}
				if l.at(0) == '*' && l.at(1) == '/' {
					l.advance(2)
					break
				}
				l.advance(1)
			}
		default:
			return string(l.data[start:l.pos]), nil
		}
	}
	return string(l.data[start:l.pos]), nil
}

// skipString consumes a single- or double-quoted string, including the
// closing quote. The cursor must be on the opening quote.
func (l *lexer) skipString() error {
	start := l.pos
	quote := l.at(0)
	l.advance(1)
	for !l.eof() {
		switch c := l.at(0); c {
		case '\\':
			l.advance(2)
		case quote:
			l.advance(1)
			return nil
		case '\n':
			return l.errUnterminated(start, "string literal")
		default:
			l.advance(1)
		}
	}
	return l.errUnterminated(start, "string literal")
}

// skipTemplate consumes a template literal, including interpolations. The
// cursor must be on the opening backtick.
func (l *lexer) skipTemplate() error {
	start := l.pos
	l.advance(1)
	for !l.eof() {
		switch c := l.at(0); {
		case c == '\\':
			l.advance(2)
		case c == '`':
			l.advance(1)
			return nil
		case c == '$' && l.at(1) == '{':
			l.advance(2)
			if err := l.skipInterpolation(start); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
	return l.errUnterminated(start, "template literal")
}

// skipInterpolation consumes a template interpolation through its closing
// brace. The cursor must be just past the "${".
func (l *lexer) skipInterpolation(templateStart int) error {
	depth := 1
	for !l.eof() {
		switch c := l.at(0); {
		case c == '\'' || c == '"':
			if err := l.skipString(); err != nil {
				return err
			}
		case c == '`':
			if err := l.skipTemplate(); err != nil {
				return err
			}
		case c == '{':
			depth++
			l.advance(1)
		case c == '}':
			depth--
			l.advance(1)
			if depth == 0 {
				return nil
			}
		default:
			l.advance(1)
		}
	}
	return l.errUnterminated(templateStart, "template literal")
}

// skipBalanced consumes a balanced group delimited by open and close,
// including the delimiters, and returns the consumed text. Strings, template
// literals, and comments inside the group are skipped atomically. The cursor
// must be on the opening delimiter.
func (l *lexer) skipBalanced(open, close byte, what string) (string, error) {
	start := l.pos
	depth := 0
	for !l.eof() {
		switch c := l.at(0); {
		case c == '\'' || c == '"':
			if err := l.skipString(); err != nil {
				return "", err
			}
		case c == '`':
			if err := l.skipTemplate(); err != nil {
				return "", err
			}
		case c == '/' && (l.at(1) == '/' || l.at(1) == '*'):
			if _, err := l.skipTrivia(); err != nil {
				return "", err
			}
		case c == open:
			depth++
			l.advance(1)
		case c == close:
			depth--
			l.advance(1)
			if depth == 0 {
				return string(l.data[start:l.pos]), nil
			}
		default:
			l.advance(1)
		}
	}
	return "", l.errUnterminated(start, what)
}

// takeIdent consumes an identifier at the cursor and returns it, or returns
// "" if the cursor is not on an identifier. Identifiers are scanned a
// grapheme cluster at a time so combining characters stay attached.
func (l *lexer) takeIdent() string {
	start := l.pos
	first := true
	for gs := uniseg.NewGraphemes(string(l.data[l.pos:])); gs.Next(); {
		g := gs.Str()
		r, _ := utf8.DecodeRuneInString(g)
		ok := r == '_' || r == '$' || unicode.IsLetter(r)
		if !first {
			ok = ok || unicode.IsDigit(r)
		}
		if !ok {
			break
		}
		l.advance(len(g))
		first = false
	}
	return string(l.data[start:l.pos])
}

// peekIdent returns the identifier at the cursor without consuming it.
func (l *lexer) peekIdent() string {
	m := l.mark()
	id := l.takeIdent()
	l.rewind(m)
	return id
}
