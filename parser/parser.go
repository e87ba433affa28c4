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

// Package parser turns source text into the tree defined by the ast package.
//
// The parser models only what the transform needs: class declarations at
// statement position are parsed structurally (decorators, heritage clause,
// members); every other statement is captured as an opaque, byte-preserving
// run, with brace-delimited blocks inside it re-scanned so declarations in
// nested scopes are still found. Member parameter lists and bodies are
// captured as raw text and never analyzed.
package parser

import (
	"errors"
	"strings"

	"github.com/declower/declower/ast"
	"github.com/declower/declower/reporter"
)

// Parse parses the given source contents into a tree. Errors are reported
// through the handler; if the handler chooses to abort (the default), the
// first error is returned.
func Parse(filename string, contents []byte, handler *reporter.Handler) (*ast.SourceFile, error) {
	p := &parser{lexer: newLexer(filename, contents, handler)}
	stmts, trailing, err := p.stmts(false)
	if err != nil {
		return nil, err
	}
	if err := handler.Err(); err != nil {
		return nil, err
	}
	return ast.NewSourceFile(p.info, stmts, trailing), nil
}

type parser struct {
	*lexer
}

// errUnmodeledMember marks a class body that uses member syntax the
// structural parser does not model. The enclosing declaration is re-captured
// as a raw statement instead of failing the file.
var errUnmodeledMember = errors.New("unmodeled class member")

// modifiers that may precede a class member name. If the word is immediately
// followed by something only a name can precede, it was the name itself.
var memberModifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"static":    true,
	"readonly":  true,
	"abstract":  true,
	"override":  true,
	"declare":   true,
	"async":     true,
}

// stmts parses statements until EOF or, when inBlock is set, the closing
// brace of the enclosing block (which is left unconsumed). The returned
// string is the trivia between the last statement and the terminator.
func (p *parser) stmts(inBlock bool) ([]ast.Statement, string, error) {
	var out []ast.Statement
	for {
		trivia, err := p.skipTrivia()
		if err != nil {
			return nil, "", err
		}
		if p.eof() || (inBlock && p.at(0) == '}') {
			return out, trivia, nil
		}
		st, err := p.stmt(trivia, inBlock)
		if err != nil {
			return nil, "", err
		}
		out = append(out, st)
	}
}

func (p *parser) stmt(trivia string, inBlock bool) (ast.Statement, error) {
	start := p.mark()
	decl, ok, err := p.tryClassDecl(trivia)
	if err != nil {
		return nil, err
	}
	if ok {
		return decl, nil
	}
	p.rewind(start)
	return p.rawStmt(trivia, inBlock)
}

// tryClassDecl attempts to parse a class declaration, optionally preceded by
// decorators and export modifiers in either order. It reports ok=false, with
// the cursor position undefined, when the statement turns out not to be a
// class declaration the transform models, or when the class body uses member
// syntax the parser does not model; the caller then rewinds and captures the
// statement as raw text. Lexical errors (unterminated argument lists,
// strings, comments, bodies) are returned as hard errors: recovering from a
// half-scanned token could misplace every statement boundary after it.
func (p *parser) tryClassDecl(trivia string) (*ast.ClassDecl, bool, error) {
	start := p.mark()
	startPos := p.sourcePos()
	var decorators []*ast.Decorator
	var export, dflt bool

loop:
	for {
		switch c := p.at(0); {
		case c == '@':
			d, ok, err := p.decorator()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			decorators = append(decorators, d)
		case c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			switch w := p.peekIdent(); {
			case w == "export" && !export:
				p.takeIdent()
				export = true
			case w == "default" && export && !dflt:
				p.takeIdent()
				dflt = true
			case w == "abstract":
				p.takeIdent()
			case w == "declare":
				// Ambient declaration: type-only, nothing to transform.
				return nil, false, nil
			default:
				break loop
			}
		default:
			break loop
		}
		if _, err := p.skipTrivia(); err != nil {
			return nil, false, err
		}
	}

	if p.peekIdent() != "class" {
		return nil, false, nil
	}
	p.takeIdent()
	if _, err := p.skipTrivia(); err != nil {
		return nil, false, err
	}
	name := p.takeIdent()
	if name == "" {
		// Anonymous class expression; not a declaration.
		return nil, false, nil
	}
	if _, err := p.skipTrivia(); err != nil {
		return nil, false, err
	}
	if p.at(0) == '<' {
		if _, err := p.skipBalanced('<', '>', "type parameter list"); err != nil {
			return nil, false, err
		}
		if _, err := p.skipTrivia(); err != nil {
			return nil, false, err
		}
	}

	heritage, err := p.heritage()
	if err != nil {
		return nil, false, err
	}
	if p.at(0) != '{' {
		return nil, false, nil
	}
	bodyStart := p.mark()
	p.advance(1)
	members, err := p.members(bodyStart)
	if err != nil {
		if errors.Is(err, errUnmodeledMember) {
			return nil, false, nil
		}
		return nil, false, err
	}
	end := p.mark()

	return &ast.ClassDecl{
		StmtInfo: ast.StmtInfo{
			LeadingTrivia: trivia,
			PosStart:      startPos,
			PosEnd:        p.info.SourcePos(end),
		},
		Decorators: decorators,
		Export:     export,
		Default:    dflt,
		Name:       name,
		Heritage:   heritage,
		Members:    members,
		Raw:        string(p.data[start:end]),
		RawOffset:  start,
	}, true, nil
}

// decorator parses "@name" or "@dotted.name(...)". The cursor must be on the
// "@". A "@" not followed by an identifier reports ok=false.
func (p *parser) decorator() (*ast.Decorator, bool, error) {
	startPos := p.sourcePos()
	p.advance(1)
	name := p.takeIdent()
	if name == "" {
		return nil, false, nil
	}
	for p.at(0) == '.' {
		p.advance(1)
		part := p.takeIdent()
		if part == "" {
			return nil, false, nil
		}
		name += "." + part
	}
	var args string
	if p.at(0) == '(' {
		var err error
		args, err = p.skipBalanced('(', ')', "decorator argument list")
		if err != nil {
			return nil, false, err
		}
	}
	return &ast.Decorator{
		Name:     name,
		Args:     args,
		PosStart: startPos,
		PosEnd:   p.sourcePos(),
	}, true, nil
}

// heritage parses an optional "extends Expr" clause and consumes (but
// discards) an "implements" clause. It returns the extends expression with
// any trailing type arguments removed, or "" if the class has no heritage.
// On return the cursor is on the class body's opening brace (or on whatever
// unexpected token follows the clause).
func (p *parser) heritage() (string, error) {
	if p.peekIdent() != "extends" {
		return "", p.skipImplements()
	}
	p.takeIdent()
	if _, err := p.skipTrivia(); err != nil {
		return "", err
	}
	start := p.mark()
	for !p.eof() {
		switch c := p.at(0); {
		case c == '{':
			return p.finishHeritage(start)
		case c == '\'' || c == '"':
			if err := p.skipString(); err != nil {
				return "", err
			}
		case c == '`':
			if err := p.skipTemplate(); err != nil {
				return "", err
			}
		case c == '(':
			if _, err := p.skipBalanced('(', ')', "heritage expression"); err != nil {
				return "", err
			}
		case c == '[':
			if _, err := p.skipBalanced('[', ']', "heritage expression"); err != nil {
				return "", err
			}
		case c == '<':
			if _, err := p.skipBalanced('<', '>', "type argument list"); err != nil {
				return "", err
			}
		case c == '/' && (p.at(1) == '/' || p.at(1) == '*'):
			if _, err := p.skipTrivia(); err != nil {
				return "", err
			}
		default:
			if p.peekIdent() == "implements" {
				expr := strings.TrimSpace(string(p.data[start:p.pos]))
				return stripTypeArgs(expr), p.skipImplements()
			}
			l := len(p.peekIdent())
			if l == 0 {
				l = 1
			}
			p.advance(l)
		}
	}
	return "", p.errUnterminated(start, "heritage clause")
}

// finishHeritage is the common exit for heritage when the body brace is
// reached directly.
func (p *parser) finishHeritage(start int) (string, error) {
	expr := strings.TrimSpace(string(p.data[start:p.pos]))
	return stripTypeArgs(expr), nil
}

// skipImplements consumes an "implements" clause, which is type-level only,
// leaving the cursor on the body's opening brace.
func (p *parser) skipImplements() error {
	if p.peekIdent() != "implements" {
		return nil
	}
	for !p.eof() && p.at(0) != '{' {
		switch c := p.at(0); {
		case c == '<':
			if _, err := p.skipBalanced('<', '>', "type argument list"); err != nil {
				return err
			}
		case c == '/' && (p.at(1) == '/' || p.at(1) == '*'):
			if _, err := p.skipTrivia(); err != nil {
				return err
			}
		default:
			p.advance(1)
		}
	}
	return nil
}

// stripTypeArgs removes a trailing type argument list from an extends
// expression: "Base<T>" becomes "Base". The value-level expression is what
// the legacy emission closes over.
func stripTypeArgs(expr string) string {
	if !strings.HasSuffix(expr, ">") {
		return expr
	}
	depth := 0
	for i := len(expr) - 1; i >= 0; i-- {
		switch expr[i] {
		case '>':
			depth++
		case '<':
			depth--
			if depth == 0 {
				return strings.TrimSpace(expr[:i])
			}
		}
	}
	return expr
}

// members parses a class body. The opening brace has been consumed;
// bodyStart is its offset, used for unterminated-body errors.
func (p *parser) members(bodyStart int) ([]*ast.ClassMember, error) {
	var out []*ast.ClassMember
	for {
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errUnterminated(bodyStart, "class body")
		}
		switch p.at(0) {
		case '}':
			p.advance(1)
			return out, nil
		case ';', ',':
			p.advance(1)
			continue
		}
		m, err := p.member()
		if err != nil {
			return nil, err
		}
		if m != nil {
			out = append(out, m)
		}
	}
}

// member parses one class member. It returns (nil, nil) for type-only
// members that have no runtime presence (overload signatures, abstract and
// declare members without bodies, bare field type declarations are kept so
// the transform can still warn about decorators on them).
func (p *parser) member() (*ast.ClassMember, error) {
	startPos := p.sourcePos()
	var decorators []*ast.Decorator
	for p.at(0) == '@' {
		d, ok, err := p.decorator()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errUnmodeledMember
		}
		decorators = append(decorators, d)
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
	}

	var static, async bool
	for {
		w := p.peekIdent()
		if !memberModifiers[w] {
			break
		}
		save := p.mark()
		p.takeIdent()
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if terminatesName(p.at(0)) {
			// The modifier keyword was actually the member name.
			p.rewind(save)
			break
		}
		switch w {
		case "static":
			static = true
		case "async":
			async = true
		}
	}

	kind := ast.MemberMethod
	if w := p.peekIdent(); w == "get" || w == "set" {
		save := p.mark()
		p.takeIdent()
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if terminatesName(p.at(0)) {
			p.rewind(save)
		} else if w == "get" {
			kind = ast.MemberGetter
		} else {
			kind = ast.MemberSetter
		}
	}

	generator := false
	if p.at(0) == '*' {
		generator = true
		p.advance(1)
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
	}

	var name string
	switch c := p.at(0); {
	case c == '[':
		n, err := p.skipBalanced('[', ']', "computed member name")
		if err != nil {
			return nil, err
		}
		name = n
	case c == '\'' || c == '"':
		start := p.mark()
		if err := p.skipString(); err != nil {
			return nil, err
		}
		name = string(p.data[start:p.pos])
	default:
		name = p.takeIdent()
		if name == "" {
			return nil, errUnmodeledMember
		}
	}
	if _, err := p.skipTrivia(); err != nil {
		return nil, err
	}
	for p.at(0) == '?' || p.at(0) == '!' {
		p.advance(1)
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
	}
	if p.at(0) == '<' {
		if _, err := p.skipBalanced('<', '>', "type parameter list"); err != nil {
			return nil, err
		}
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
	}

	if p.at(0) == '(' {
		return p.methodRest(startPos, decorators, static, generator, async, kind, name)
	}
	return p.fieldRest(startPos, decorators, static, name)
}

// terminatesName reports whether the byte after an identifier proves that
// the identifier was a member name rather than a modifier or accessor
// keyword.
func terminatesName(c byte) bool {
	switch c {
	case '(', '=', ':', ';', ',', '?', '!', '<', '}':
		return true
	}
	return false
}

func (p *parser) methodRest(startPos ast.SourcePos, decorators []*ast.Decorator, static, generator, async bool, kind ast.MemberKind, name string) (*ast.ClassMember, error) {
	params, err := p.skipBalanced('(', ')', "parameter list")
	if err != nil {
		return nil, err
	}
	params = params[1 : len(params)-1]
	if _, err := p.skipTrivia(); err != nil {
		return nil, err
	}
	if p.at(0) == ':' {
		p.advance(1)
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.at(0) == '{' {
			// An object type; a body brace cannot directly follow the colon.
			if _, err := p.skipBalanced('{', '}', "type annotation"); err != nil {
				return nil, err
			}
		}
		if err := p.consumeType("{;}"); err != nil {
			return nil, err
		}
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
	}
	if p.at(0) != '{' {
		// Overload or abstract signature: no runtime presence.
		if p.at(0) == ';' {
			p.advance(1)
		}
		return nil, nil
	}
	body, err := p.skipBalanced('{', '}', "member body")
	if err != nil {
		return nil, err
	}
	if kind == ast.MemberMethod && name == "constructor" {
		kind = ast.MemberConstructor
	}
	return &ast.ClassMember{
		Kind:       kind,
		Static:     static,
		Generator:  generator,
		Async:      async,
		Decorators: decorators,
		Name:       name,
		Params:     params,
		Body:       body,
		PosStart:   startPos,
		PosEnd:     p.sourcePos(),
	}, nil
}

func (p *parser) fieldRest(startPos ast.SourcePos, decorators []*ast.Decorator, static bool, name string) (*ast.ClassMember, error) {
	if p.at(0) == ':' {
		p.advance(1)
		if err := p.consumeType("=;}"); err != nil {
			return nil, err
		}
	}
	var init string
	if p.at(0) == '=' {
		p.advance(1)
		if _, err := p.skipTrivia(); err != nil {
			return nil, err
		}
		start := p.mark()
		if err := p.consumeExpr(); err != nil {
			return nil, err
		}
		init = strings.TrimSpace(string(p.data[start:p.pos]))
	}
	if p.at(0) == ';' {
		p.advance(1)
	}
	return &ast.ClassMember{
		Kind:       ast.MemberField,
		Static:     static,
		Decorators: decorators,
		Name:       name,
		Body:       init,
		PosStart:   startPos,
		PosEnd:     p.sourcePos(),
	}, nil
}

// consumeType consumes a type annotation until one of the stop bytes at
// nesting depth zero, or a line break. The type text is discarded: types
// have no runtime presence in the legacy emission.
func (p *parser) consumeType(stop string) error {
	for !p.eof() {
		c := p.at(0)
		if strings.IndexByte(stop, c) >= 0 || c == '\n' {
			return nil
		}
		switch {
		case c == '\'' || c == '"':
			if err := p.skipString(); err != nil {
				return err
			}
		case c == '`':
			if err := p.skipTemplate(); err != nil {
				return err
			}
		case c == '{':
			if _, err := p.skipBalanced('{', '}', "type annotation"); err != nil {
				return err
			}
		case c == '(':
			if _, err := p.skipBalanced('(', ')', "type annotation"); err != nil {
				return err
			}
		case c == '[':
			if _, err := p.skipBalanced('[', ']', "type annotation"); err != nil {
				return err
			}
		case c == '<':
			if _, err := p.skipBalanced('<', '>', "type annotation"); err != nil {
				return err
			}
		case c == '/' && (p.at(1) == '/' || p.at(1) == '*'):
			if _, err := p.skipTrivia(); err != nil {
				return err
			}
		default:
			p.advance(1)
		}
	}
	return nil
}

// consumeExpr consumes a field initializer expression until a semicolon or
// closing brace at nesting depth zero. A line break ends the expression
// unless the bytes around it show it is unfinished, as in an initializer that
// continues after a trailing infix operator or onto a line that begins with
// one.
func (p *parser) consumeExpr() error {
	var last byte
	for !p.eof() {
		c := p.at(0)
		switch {
		case c == ';' || c == '}':
			return nil
		case c == '\n':
			if !continuesExpr(last) && !continuesExpr(p.nextSignificant()) {
				return nil
			}
			p.advance(1)
		case c == ' ' || c == '\t' || c == '\r':
			p.advance(1)
		case c == '\'' || c == '"':
			if err := p.skipString(); err != nil {
				return err
			}
			last = c
		case c == '`':
			if err := p.skipTemplate(); err != nil {
				return err
			}
			last = c
		case c == '{':
			if _, err := p.skipBalanced('{', '}', "initializer"); err != nil {
				return err
			}
			last = '}'
		case c == '(':
			if _, err := p.skipBalanced('(', ')', "initializer"); err != nil {
				return err
			}
			last = ')'
		case c == '[':
			if _, err := p.skipBalanced('[', ']', "initializer"); err != nil {
				return err
			}
			last = ']'
		case c == '/' && (p.at(1) == '/' || p.at(1) == '*'):
			if _, err := p.skipTrivia(); err != nil {
				return err
			}
		default:
			last = c
			p.advance(1)
		}
	}
	return nil
}

// continuesExpr reports whether the byte on one side of a line break keeps a
// field initializer open across it.
func continuesExpr(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '?', ':', ',', '.':
		return true
	}
	return false
}

// nextSignificant returns the first byte past the cursor that is not
// whitespace, or 0 at end of input. The cursor does not move.
func (p *parser) nextSignificant() byte {
	for i := p.pos + 1; i < len(p.data); i++ {
		switch p.data[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return p.data[i]
		}
	}
	return 0
}

// rawStmt captures a statement the parser does not model. The statement's
// bytes are preserved exactly; brace-delimited blocks inside it are
// re-scanned as statement lists so nested declarations remain visible. A raw
// statement ends after a top-level semicolon, or after a closing brace that
// is followed by the start of a declaration the parser does model.
func (p *parser) rawStmt(trivia string, inBlock bool) (ast.Statement, error) {
	startPos := p.sourcePos()
	var parts []ast.RawPart
	textStart := p.mark()

	flush := func() {
		if p.pos > textStart {
			parts = append(parts, ast.RawText(p.data[textStart:p.pos]))
		}
		textStart = p.pos
	}

scan:
	for !p.eof() {
		switch c := p.at(0); {
		case c == '\'' || c == '"':
			if err := p.skipString(); err != nil {
				return nil, err
			}
		case c == '`':
			if err := p.skipTemplate(); err != nil {
				return nil, err
			}
		case c == '/' && (p.at(1) == '/' || p.at(1) == '*'):
			if _, err := p.skipTrivia(); err != nil {
				return nil, err
			}
		case c == '(':
			if _, err := p.skipBalanced('(', ')', "parenthesized group"); err != nil {
				return nil, err
			}
		case c == '[':
			if _, err := p.skipBalanced('[', ']', "bracketed group"); err != nil {
				return nil, err
			}
		case c == '{':
			open := p.mark()
			p.advance(1)
			flush()
			stmts, trailing, err := p.stmts(true)
			if err != nil {
				return nil, err
			}
			if p.eof() {
				return nil, p.errUnterminated(open, "block")
			}
			parts = append(parts, &ast.RawBlock{Stmts: stmts, Trailing: trailing})
			textStart = p.mark()
			p.advance(1) // closing brace
			if done, err := p.atDeclBoundary(); err != nil {
				return nil, err
			} else if done {
				break scan
			}
		case c == '}':
			if inBlock {
				break scan
			}
			p.advance(1)
			if done, err := p.atDeclBoundary(); err != nil {
				return nil, err
			} else if done {
				break scan
			}
		case c == ';':
			p.advance(1)
			break scan
		default:
			if id := p.takeIdent(); id == "" {
				p.advance(1)
			}
		}
	}
	flush()

	return &ast.RawStmt{
		StmtInfo: ast.StmtInfo{
			LeadingTrivia: trivia,
			PosStart:      startPos,
			PosEnd:        p.sourcePos(),
		},
		Parts: parts,
	}, nil
}

// atDeclBoundary peeks past trivia and reports whether the next token starts
// a statement the parser models structurally. It leaves the cursor where it
// was.
func (p *parser) atDeclBoundary() (bool, error) {
	save := p.mark()
	defer p.rewind(save)
	if _, err := p.skipTrivia(); err != nil {
		return false, err
	}
	if p.at(0) == '@' {
		return true, nil
	}
	switch p.peekIdent() {
	case "class", "export":
		return true, nil
	}
	return false, nil
}
