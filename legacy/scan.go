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

package legacy

import (
	"unicode"
	"unicode/utf8"
)

// The textual rewrites in this package (super-call rewriting, parameter
// erasure, the enumerability normalizer) operate on a coarse token stream
// rather than raw bytes, so string literals and comments can never be
// mistaken for code. This scanner produces that stream. It is deliberately
// lossy: tokens carry offsets into the original text, and rewrites are
// expressed as splices, so everything between tokens survives untouched.

type tokenKind int

const (
	tokenIdent tokenKind = iota + 1
	tokenString
	tokenPunct
	tokenOther
)

type token struct {
	kind tokenKind
	// Byte offsets of the token in the scanned text.
	start, end int
	// The token's text for idents and puncts.
	text string
}

// scanTokens splits text into coarse tokens. Whitespace and comments are
// dropped; strings and template literals (including their interpolations)
// are single tokens. The input is expected to be well-formed; on a dangling
// construct the remainder becomes one token.
func scanTokens(text string) []token {
	var toks []token
	pos := 0
	for pos < len(text) {
		c := text[pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			pos++
		case c == '/' && pos+1 < len(text) && text[pos+1] == '/':
			for pos < len(text) && text[pos] != '\n' {
				pos++
			}
		case c == '/' && pos+1 < len(text) && text[pos+1] == '*':
			end := pos + 2
			for end < len(text) && !(text[end] == '*' && end+1 < len(text) && text[end+1] == '/') {
				end++
			}
			if end < len(text) {
				end += 2
			}
			pos = end
		case c == '\'' || c == '"':
			start := pos
			pos = skipStringToken(text, pos)
			toks = append(toks, token{kind: tokenString, start: start, end: pos})
		case c == '`':
			start := pos
			pos = skipTemplateToken(text, pos)
			toks = append(toks, token{kind: tokenString, start: start, end: pos})
		case c >= utf8.RuneSelf || isIdentStart(rune(c)):
			r, size := utf8.DecodeRuneInString(text[pos:])
			if !isIdentStart(r) {
				toks = append(toks, token{kind: tokenOther, start: pos, end: pos + size})
				pos += size
				break
			}
			start := pos
			pos += size
			for pos < len(text) {
				r, size := utf8.DecodeRuneInString(text[pos:])
				if !isIdentPart(r) {
					break
				}
				pos += size
			}
			toks = append(toks, token{kind: tokenIdent, start: start, end: pos, text: text[start:pos]})
		default:
			end := pos + 1
			// An arrow scans as one token so "=>" is never mistaken for an
			// assignment or a closing type bracket.
			if c == '=' && pos+1 < len(text) && text[pos+1] == '>' {
				end = pos + 2
			}
			toks = append(toks, token{kind: tokenPunct, start: pos, end: end, text: text[pos:end]})
			pos = end
		}
	}
	return toks
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func skipStringToken(text string, pos int) int {
	quote := text[pos]
	pos++
	for pos < len(text) {
		switch text[pos] {
		case '\\':
			pos += 2
		case quote:
			return pos + 1
		case '\n':
			return pos
		default:
			pos++
		}
	}
	return pos
}

func skipTemplateToken(text string, pos int) int {
	pos++ // backtick
	for pos < len(text) {
		switch {
		case text[pos] == '\\':
			pos += 2
		case text[pos] == '`':
			return pos + 1
		case text[pos] == '$' && pos+1 < len(text) && text[pos+1] == '{':
			pos += 2
			depth := 1
			for pos < len(text) && depth > 0 {
				switch text[pos] {
				case '\'', '"':
					pos = skipStringToken(text, pos)
					continue
				case '`':
					pos = skipTemplateToken(text, pos)
					continue
				case '{':
					depth++
				case '}':
					depth--
				}
				pos++
			}
		default:
			pos++
		}
	}
	return pos
}

// splice is a pending replacement of text[start:end) with repl.
type splice struct {
	start, end int
	repl       string
}

// applySplices applies non-overlapping splices, which must be sorted by
// start offset.
func applySplices(text string, splices []splice) string {
	if len(splices) == 0 {
		return text
	}
	var sb []byte
	prev := 0
	for _, sp := range splices {
		sb = append(sb, text[prev:sp.start]...)
		sb = append(sb, sp.repl...)
		prev = sp.end
	}
	sb = append(sb, text[prev:]...)
	return string(sb)
}
