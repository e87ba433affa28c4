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
	"strings"
)

// rewriteSuper rewrites super references in a constructor or method body for
// the prototype emission, where the parent constructor is in scope as
// _super:
//
//	super(a, b)    -> _super.call(this, a, b)
//	super.m(a)     -> _super.prototype.m.call(this, a)
//	super.p        -> _super.prototype.p
//
// The rewrite is token-driven: "super" inside strings, comments, or as a
// property name (x.super) is left alone.
func rewriteSuper(body string) string {
	toks := scanTokens(body)
	var splices []splice
	for i, tok := range toks {
		if tok.kind != tokenIdent || tok.text != "super" {
			continue
		}
		if i > 0 && toks[i-1].kind == tokenPunct && toks[i-1].text == "." {
			continue // property named super
		}
		switch {
		case nextPunct(toks, i+1, "("):
			// super(...) -> _super.call(this...)
			open := toks[i+1]
			repl := "_super.call(this"
			if !nextPunct(toks, i+2, ")") {
				repl += ", "
			}
			splices = append(splices, splice{start: tok.start, end: open.end, repl: repl})
		case nextPunct(toks, i+1, ".") && i+2 < len(toks) && toks[i+2].kind == tokenIdent && nextPunct(toks, i+3, "("):
			// super.m(...) -> _super.prototype.m.call(this...)
			open := toks[i+3]
			repl := "_super.prototype." + toks[i+2].text + ".call(this"
			if !nextPunct(toks, i+4, ")") {
				repl += ", "
			}
			splices = append(splices, splice{start: tok.start, end: open.end, repl: repl})
		case nextPunct(toks, i+1, "."):
			// super.p -> _super.prototype.p
			splices = append(splices, splice{start: tok.start, end: tok.end, repl: "_super.prototype"})
		default:
			splices = append(splices, splice{start: tok.start, end: tok.end, repl: "_super"})
		}
	}
	return applySplices(body, splices)
}

func nextPunct(toks []token, i int, text string) bool {
	return i < len(toks) && toks[i].kind == tokenPunct && toks[i].text == text
}

// parameterProperty is the set of constructor parameter modifiers that, in
// the source language, both declare and initialize an instance property.
var parameterProperty = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"readonly":  true,
}

// eraseParams rewrites a raw parameter list for emission as a plain function:
// type annotations and optional markers are removed, default values and rest
// parameters are kept as written. Parameter decorators and parameter
// properties cannot be expressed in the emission; they are dropped with a
// warning recorded through warn.
func eraseParams(params string, warn func(format string, args ...any)) string {
	parts := splitParams(params)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		p := eraseParam(part, warn)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// splitParams splits a parameter list at top-level commas, respecting
// brackets, strings, and comments. A lone ">" never closes a bracket that was
// not opened, so a comparison in a default value cannot unbalance the list.
func splitParams(params string) []string {
	if strings.TrimSpace(params) == "" {
		return nil
	}
	toks := scanTokens(params)
	var parts []string
	depth := 0
	start := 0
	for _, tok := range toks {
		if tok.kind != tokenPunct {
			continue
		}
		switch tok.text {
		case "(", "[", "{", "<":
			depth++
		case ")", "]", "}", ">":
			if depth > 0 {
				depth--
			}
		case ",":
			if depth == 0 {
				parts = append(parts, params[start:tok.start])
				start = tok.end
			}
		}
	}
	parts = append(parts, params[start:])
	return parts
}

// eraseParam handles a single parameter.
func eraseParam(param string, warn func(format string, args ...any)) string {
	toks := scanTokens(param)
	if len(toks) == 0 {
		return ""
	}

	i := 0
	// Parameter decorators: @dec or @dec(...).
	for nextPunct(toks, i, "@") {
		j := i + 1
		for j < len(toks) && (toks[j].kind == tokenIdent || nextPunct(toks, j, ".")) {
			j++
		}
		if nextPunct(toks, j, "(") {
			j = matchGroup(toks, j)
		}
		if i+1 < len(toks) && toks[i+1].kind == tokenIdent {
			warn("decorator @%s on a parameter is not applied by the legacy emission", toks[i+1].text)
		}
		i = j
	}
	// Parameter property modifiers.
	property := false
	for i < len(toks) && toks[i].kind == tokenIdent && parameterProperty[toks[i].text] {
		// Only a modifier if another identifier (or rest element) follows.
		if i+1 < len(toks) && (toks[i+1].kind == tokenIdent || nextPunct(toks, i+1, ".")) {
			property = true
			i++
			continue
		}
		break
	}

	rest := ""
	for j := i; j < len(toks) && j < i+3 && nextPunct(toks, j, "."); j++ {
		rest += "."
	}
	if rest == "..." {
		i += 3
	}
	if i >= len(toks) || toks[i].kind != tokenIdent {
		// Destructuring or something else exotic; keep the text as written
		// minus nothing, since we cannot name it to erase types safely.
		return strings.TrimSpace(param)
	}
	name := toks[i].text
	if property {
		warn("parameter property %q is declared but not initialized by the legacy emission", name)
	}
	i++

	out := rest + name
	// Optional marker.
	if nextPunct(toks, i, "?") {
		i++
	}
	// Type annotation: drop everything from ":" to "=" at top level, or to
	// the end.
	if nextPunct(toks, i, ":") {
		depth := 0
		i++
		for i < len(toks) {
			if toks[i].kind == tokenPunct {
				t := toks[i].text
				if t == "(" || t == "[" || t == "{" || t == "<" {
					depth++
				} else if (t == ")" || t == "]" || t == "}" || t == ">") && depth > 0 {
					depth--
				} else if t == "=" && depth == 0 {
					break
				}
			}
			i++
		}
	}
	// Default value: keep as written.
	if nextPunct(toks, i, "=") {
		out += " = " + strings.TrimSpace(param[toks[i].end:])
	}
	return out
}

// matchGroup returns the index just past the group opened at toks[i].
func matchGroup(toks []token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		if toks[i].kind != tokenPunct {
			continue
		}
		switch toks[i].text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}
