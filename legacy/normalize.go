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

// Normalize rewrites the enumerability attribute of property descriptors in
// emitted text: inside a call of the shape
//
//	Object.defineProperty(recv, key, { ..., enumerable: false, ... })
//
// the attribute is rewritten to "enumerable: true". The legacy emission
// installs class members non-enumerable by convention, but consumers of the
// transformed classes enumerate these members across the runtime boundary,
// so every member-defining descriptor is patched.
//
// The match is structural over a token stream, not a string replacement:
// text inside string literals, comments, or outside a defineProperty call
// shape is never altered, even when it reads "enumerable: false". Only
// attributes at the top level of the descriptor object are patched; a
// descriptor-shaped object inside a member's own body is user code and is
// left alone.
func Normalize(emitted string) string {
	toks := scanTokens(emitted)
	var splices []splice

	// Bracket stack over parens and braces; a paren frame records whether
	// its call target was Object.defineProperty. An attribute is at
	// descriptor top level when its enclosing brace sits directly inside
	// such a frame.
	type frame struct {
		brace bool
		dp    bool
	}
	var stack []frame

	for i, tok := range toks {
		if tok.kind != tokenPunct {
			continue
		}
		switch tok.text {
		case "(":
			dp := i >= 3 &&
				identIs(toks[i-3], "Object") &&
				punctIs(toks[i-2], ".") &&
				identIs(toks[i-1], "defineProperty")
			stack = append(stack, frame{dp: dp})
		case "{":
			stack = append(stack, frame{brace: true})
		case ")", "}":
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		case ":":
			n := len(stack)
			if n < 2 || !stack[n-1].brace || !stack[n-2].dp {
				continue
			}
			// { enumerable: false  or  , enumerable: false
			if i < 2 || i+1 >= len(toks) {
				continue
			}
			if !identIs(toks[i-1], "enumerable") || !identIs(toks[i+1], "false") {
				continue
			}
			if !punctIs(toks[i-2], "{") && !punctIs(toks[i-2], ",") {
				continue
			}
			splices = append(splices, splice{start: toks[i+1].start, end: toks[i+1].end, repl: "true"})
		}
	}
	return applySplices(emitted, splices)
}

func identIs(t token, text string) bool {
	return t.kind == tokenIdent && t.text == text
}

func punctIs(t token, text string) bool {
	return t.kind == tokenPunct && t.text == text
}
