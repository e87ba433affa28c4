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
	"fmt"
	"strings"

	"github.com/declower/declower/ast"
)

// emitter renders one class declaration as a prototype-based IIFE. Every
// member is installed through Object.defineProperty with an explicit
// descriptor; the legacy convention marks them non-enumerable, and Normalize
// flips that afterwards. No helper functions are referenced: inheritance is
// wired with Object.create and Object.setPrototypeOf only.
type emitter struct {
	sb   strings.Builder
	warn func(format string, args ...any)
}

func (e *emitter) linef(format string, args ...any) {
	fmt.Fprintf(&e.sb, format, args...)
	e.sb.WriteByte('\n')
}

func (e *emitter) emitClass(c *ast.ClassDecl) {
	name := c.Name
	derived := c.Heritage != ""

	head := "var " + name + " = /** @class */ ("
	if c.Export && !c.Default {
		head = "export " + head
	}
	if derived {
		e.linef("%sfunction (_super) {", head)
	} else {
		e.linef("%sfunction () {", head)
	}

	e.emitConstructor(c, derived)
	if derived {
		e.linef("    %s.prototype = Object.create(_super.prototype);", name)
		e.linef("    %s.prototype.constructor = %s;", name, name)
		e.linef("    Object.setPrototypeOf(%s, _super);", name)
	}

	e.emitMembers(c, derived)

	for _, d := range c.Decorators {
		// Remaining decorators are applied the way the downlevel helper
		// would, but inline: dec(C) replaces C when it returns a value.
		e.linef("    %s = %s(%s) || %s;", name, d.Name+d.Args, name, name)
	}

	e.linef("    return %s;", name)
	if derived {
		e.linef("}(%s));", c.Heritage)
	} else {
		e.linef("}());")
	}
	if c.Default {
		e.linef("export default %s;", name)
	}
}

func (e *emitter) emitConstructor(c *ast.ClassDecl, derived bool) {
	var ctor *ast.ClassMember
	for _, m := range c.Members {
		if m.Kind == ast.MemberConstructor {
			ctor = m
			break
		}
	}
	name := c.Name
	switch {
	case ctor != nil:
		for _, d := range ctor.Decorators {
			e.warn("decorator @%s on the constructor is not applied by the legacy emission", d.Name)
		}
		params := eraseParams(ctor.Params, e.warn)
		body := ctor.Body
		if derived {
			body = rewriteSuper(body)
		}
		e.linef("    function %s(%s) %s", name, params, body)
	case derived:
		e.linef("    function %s() {", name)
		e.linef("        return _super.apply(this, arguments) || this;")
		e.linef("    }")
	default:
		e.linef("    function %s() {", name)
		e.linef("    }")
	}
}

func (e *emitter) emitMembers(c *ast.ClassDecl, derived bool) {
	// Getter/setter pairs for the same property collapse into a single
	// descriptor, emitted at the position of whichever accessor came first.
	type accKey struct {
		static bool
		name   string
	}
	accessors := make(map[accKey][2]*ast.ClassMember)
	for _, m := range c.Members {
		if m.Kind != ast.MemberGetter && m.Kind != ast.MemberSetter {
			continue
		}
		k := accKey{m.Static, m.Name}
		pair := accessors[k]
		if m.Kind == ast.MemberGetter {
			pair[0] = m
		} else {
			pair[1] = m
		}
		accessors[k] = pair
	}
	emitted := make(map[accKey]bool)

	for _, m := range c.Members {
		if m.Kind == ast.MemberConstructor {
			continue
		}
		for _, d := range m.Decorators {
			e.warn("decorator @%s on member %q is not applied by the legacy emission", d.Name, m.Name)
		}
		recv := c.Name + ".prototype"
		if m.Static {
			recv = c.Name
		}
		switch m.Kind {
		case ast.MemberMethod:
			body := m.Body
			if derived {
				body = rewriteSuper(body)
			}
			e.linef("    Object.defineProperty(%s, %s, {", recv, propertyKey(m.Name))
			e.linef("        value: %s (%s) %s,", functionKeyword(m), eraseParams(m.Params, e.warn), body)
			e.linef("        writable: true,")
			e.linef("        enumerable: false,")
			e.linef("        configurable: true")
			e.linef("    });")
		case ast.MemberGetter, ast.MemberSetter:
			k := accKey{m.Static, m.Name}
			if emitted[k] {
				continue
			}
			emitted[k] = true
			pair := accessors[k]
			e.linef("    Object.defineProperty(%s, %s, {", recv, propertyKey(m.Name))
			if g := pair[0]; g != nil {
				body := g.Body
				if derived {
					body = rewriteSuper(body)
				}
				e.linef("        get: function () %s,", body)
			}
			if s := pair[1]; s != nil {
				body := s.Body
				if derived {
					body = rewriteSuper(body)
				}
				e.linef("        set: function (%s) %s,", eraseParams(s.Params, e.warn), body)
			}
			e.linef("        enumerable: false,")
			e.linef("        configurable: true")
			e.linef("    });")
		case ast.MemberField:
			if m.Body == "" {
				// Type-only declaration, nothing to install.
				continue
			}
			e.linef("    Object.defineProperty(%s, %s, {", recv, propertyKey(m.Name))
			e.linef("        value: %s,", m.Body)
			e.linef("        writable: true,")
			e.linef("        enumerable: false,")
			e.linef("        configurable: true")
			e.linef("    });")
		}
	}
}

// propertyKey renders the second argument of Object.defineProperty for a
// member name as parsed: plain names are quoted, string names are kept as
// written, computed names lose their brackets.
func propertyKey(name string) string {
	if strings.HasPrefix(name, "'") || strings.HasPrefix(name, "\"") {
		return name
	}
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		return strings.TrimSpace(name[1 : len(name)-1])
	}
	return `"` + name + `"`
}

func functionKeyword(m *ast.ClassMember) string {
	kw := "function"
	if m.Async {
		kw = "async function"
	}
	if m.Generator {
		kw += "*"
	}
	return kw
}
