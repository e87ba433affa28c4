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

// Node is the base interface implemented by everything in the tree that has a
// location in the source file.
type Node interface {
	Start() SourcePos
	End() SourcePos
}

// Statement is a top-level element of a source file or of a nested block.
// There are exactly three kinds: ClassDecl, RawStmt, and VerbatimStmt.
type Statement interface {
	Node
	// Leading returns the whitespace and comments that precede the statement.
	Leading() string

	isStatement()
}

// SourceFile is the root of the tree for one compilation unit. The statement
// list, serialized in order along with each statement's leading trivia and
// the file's trailing trivia, reproduces the file byte-for-byte.
type SourceFile struct {
	info *FileInfo

	Stmts []Statement
	// Trivia between the last statement and EOF.
	EOFTrivia string
}

// NewSourceFile creates a new file node. This is used by the parser; most
// callers obtain files from parser.Parse.
func NewSourceFile(info *FileInfo, stmts []Statement, eofTrivia string) *SourceFile {
	return &SourceFile{info: info, Stmts: stmts, EOFTrivia: eofTrivia}
}

// Info returns position information for the file.
func (f *SourceFile) Info() *FileInfo {
	return f.info
}

// Name returns the name of the source file.
func (f *SourceFile) Name() string {
	return f.info.Name()
}

// StmtInfo carries the source span and leading trivia common to all
// statement kinds. It is embedded in each statement type.
type StmtInfo struct {
	LeadingTrivia    string
	PosStart, PosEnd SourcePos
}

func (s *StmtInfo) Leading() string  { return s.LeadingTrivia }
func (s *StmtInfo) Start() SourcePos { return s.PosStart }
func (s *StmtInfo) End() SourcePos   { return s.PosEnd }

// Decorator is a structured annotation attached to a class declaration or to
// one of its members: a name and an optional, unparsed argument list. The
// transform matches decorators by exact name; argument text is carried only
// so the declaration can be reprinted.
type Decorator struct {
	// The dotted name as written, without the leading "@".
	Name string
	// The raw argument list including parentheses, e.g. "(1,2)". Empty if the
	// decorator has no argument list.
	Args string

	PosStart, PosEnd SourcePos
}

func (d *Decorator) Start() SourcePos { return d.PosStart }
func (d *Decorator) End() SourcePos   { return d.PosEnd }

// MemberKind discriminates the members of a class body.
type MemberKind int

const (
	MemberMethod MemberKind = iota + 1
	MemberGetter
	MemberSetter
	MemberField
	MemberConstructor
)

// ClassMember is one member of a class body. Parameter lists and bodies are
// carried as raw text: the transform re-emits them, it does not analyze them.
type ClassMember struct {
	Kind       MemberKind
	Static     bool
	Generator  bool
	Async      bool
	Decorators []*Decorator
	// The member name as written. For computed names this is the bracketed
	// source text.
	Name string
	// The parameter list text without the surrounding parentheses. Unused for
	// fields.
	Params string
	// For methods, accessors and constructors: the body including braces.
	// For fields: the initializer expression, or "" if there is none.
	Body string

	PosStart, PosEnd SourcePos
}

func (m *ClassMember) Start() SourcePos { return m.PosStart }
func (m *ClassMember) End() SourcePos   { return m.PosEnd }

// ClassDecl is a structurally parsed class declaration. Raw holds the exact
// source text of the declaration, from its first decorator (or the class
// keyword, or an export modifier) through the closing brace, so non-matching
// declarations serialize back byte-for-byte.
type ClassDecl struct {
	StmtInfo

	Decorators []*Decorator
	// Export and Default record "export class" and "export default class"
	// modifiers.
	Export  bool
	Default bool
	Name    string
	// The expression after "extends", with any type arguments removed. Empty
	// if the class has no heritage clause.
	Heritage string
	Members  []*ClassMember

	// The exact original text of the declaration and the byte offset of its
	// first byte within the file.
	Raw       string
	RawOffset int
}

func (*ClassDecl) isStatement() {}

// RawPart is a segment of a RawStmt: either literal text or a nested block.
type RawPart interface {
	isRawPart()
}

// RawText is literal source text within a raw statement.
type RawText string

func (RawText) isRawPart() {}

// RawBlock is a brace-delimited scope found inside a raw statement. The
// braces themselves live in the surrounding RawText segments. The block's
// statements are scanned like top-level statements, so the transform can find
// class declarations in nested scopes.
type RawBlock struct {
	Stmts []Statement
	// Trivia between the last statement and the closing brace.
	Trailing string
}

func (*RawBlock) isRawPart() {}

// RawStmt is a statement the transform does not model: an opaque run of
// source text, interrupted only by nested blocks.
type RawStmt struct {
	StmtInfo

	Parts []RawPart
}

func (*RawStmt) isStatement() {}

// VerbatimStmt is an opaque leaf holding pre-rendered output text. It prints
// as exactly Text, prefixed by the leading trivia of the statement it
// replaced. The rest of the pipeline must treat it as already-final code.
type VerbatimStmt struct {
	StmtInfo

	Text string
}

func (*VerbatimStmt) isStatement() {}

// NewVerbatimStmt creates a verbatim statement standing in for the given
// statement. It keeps the replaced statement's leading trivia and source
// span, so diagnostics about the emission can still point at the original
// declaration.
func NewVerbatimStmt(replaced Statement, text string) *VerbatimStmt {
	return &VerbatimStmt{
		StmtInfo: StmtInfo{
			LeadingTrivia: replaced.Leading(),
			PosStart:      replaced.Start(),
			PosEnd:        replaced.End(),
		},
		Text: text,
	}
}
