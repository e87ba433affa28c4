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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declower/declower/ast"
	"github.com/declower/declower/reporter"
)

func parse(t *testing.T, source string) *ast.SourceFile {
	t.Helper()
	f, err := Parse("test.src", []byte(source), reporter.NewHandler(nil))
	require.NoError(t, err)
	return f
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()
	sources := []string{
		"",
		"\n\n",
		"let a = 1;",
		"let a = 1;\nlet b = 2;\n",
		"// just a comment\n",
		"/* block */ let s = \"a;b\"; // trailing\n",
		"const t = `multi\n${line}\ntemplate`;\n",
		"if (x) {\n    doThing();\n} else {\n    other();\n}\n",
		"function f(a, b) {\n    return a + b;\n}\n",
		"@NativeClass\nclass Foo {\n    method() { return 1; }\n}\n",
		"export default class App extends Frame {\n    onLaunch(): void { }\n}\n",
		"class A {}\nclass B {}\n",
		"class C {\n    x = 1 +\n        2;\n}\n",
		"import { x } from \"./x\";\n\n@Other()\n@NativeClass\nexport class Mixed {\n    a = { nested: { deep: true } };\n}\n",
	}
	for _, source := range sources {
		f := parse(t, source)
		assert.Equal(t, source, ast.PrintString(f), "round trip of %q", source)
	}
}

func TestParseStatementSplitting(t *testing.T) {
	t.Parallel()
	f := parse(t, "let a = 1;\nlet b = 2;")
	require.Len(t, f.Stmts, 2)
	assert.IsType(t, (*ast.RawStmt)(nil), f.Stmts[0])
	assert.Equal(t, "\n", f.Stmts[1].Leading())
}

func TestParseClassDecl(t *testing.T) {
	t.Parallel()
	f := parse(t, `@NativeClass({ priority: 1 })
@Injectable
export class Listener extends Base<T> implements Handler {
    count = 0;
    handle(event: Event): void { this.count++; }
    static flush() { }
    get total() { return this.count; }
}`)
	require.Len(t, f.Stmts, 1)
	c, ok := f.Stmts[0].(*ast.ClassDecl)
	require.True(t, ok)

	assert.True(t, c.Export)
	assert.False(t, c.Default)
	assert.Equal(t, "Listener", c.Name)
	assert.Equal(t, "Base", c.Heritage)

	require.Len(t, c.Decorators, 2)
	assert.Equal(t, "NativeClass", c.Decorators[0].Name)
	assert.Equal(t, "({ priority: 1 })", c.Decorators[0].Args)
	assert.Equal(t, "Injectable", c.Decorators[1].Name)
	assert.Empty(t, c.Decorators[1].Args)

	require.Len(t, c.Members, 4)
	assert.Equal(t, ast.MemberField, c.Members[0].Kind)
	assert.Equal(t, "count", c.Members[0].Name)
	assert.Equal(t, "0", c.Members[0].Body)
	assert.Equal(t, ast.MemberMethod, c.Members[1].Kind)
	assert.Equal(t, "event: Event", c.Members[1].Params)
	assert.True(t, c.Members[2].Static)
	assert.Equal(t, ast.MemberGetter, c.Members[3].Kind)
	assert.Equal(t, "total", c.Members[3].Name)
}

func TestParseDottedDecorator(t *testing.T) {
	t.Parallel()
	f := parse(t, "@ns.mark.Deep(1, 2)\nclass C {\n}")
	c := f.Stmts[0].(*ast.ClassDecl)
	require.Len(t, c.Decorators, 1)
	assert.Equal(t, "ns.mark.Deep", c.Decorators[0].Name)
	assert.Equal(t, "(1, 2)", c.Decorators[0].Args)
}

func TestParseConstructorKind(t *testing.T) {
	t.Parallel()
	f := parse(t, "class C {\n    constructor(a) { this.a = a; }\n}")
	c := f.Stmts[0].(*ast.ClassDecl)
	require.Len(t, c.Members, 1)
	assert.Equal(t, ast.MemberConstructor, c.Members[0].Kind)
}

func TestParseModifierAsMemberName(t *testing.T) {
	t.Parallel()
	// "static" here is the member name, not a modifier.
	f := parse(t, "class C {\n    static() { return 1; }\n    get = 2;\n}")
	c := f.Stmts[0].(*ast.ClassDecl)
	require.Len(t, c.Members, 2)
	assert.Equal(t, "static", c.Members[0].Name)
	assert.False(t, c.Members[0].Static)
	assert.Equal(t, "get", c.Members[1].Name)
	assert.Equal(t, ast.MemberField, c.Members[1].Kind)
}

func TestParseMultilineFieldInitializer(t *testing.T) {
	t.Parallel()
	f := parse(t, "class C {\n    x = 1 +\n        2;\n    y = cond\n        ? 1\n        : 2;\n    z = base\n        .map(f);\n}\n")
	c := f.Stmts[0].(*ast.ClassDecl)
	require.Len(t, c.Members, 3)
	assert.Equal(t, "1 +\n        2", c.Members[0].Body)
	assert.Equal(t, "cond\n        ? 1\n        : 2", c.Members[1].Body)
	assert.Equal(t, "base\n        .map(f)", c.Members[2].Body)
}

func TestParseUnterminatedFieldsStaySeparate(t *testing.T) {
	t.Parallel()
	// Without semicolons a line break still ends each initializer.
	f := parse(t, "class C {\n    a = 1\n    b = 2\n}")
	c := f.Stmts[0].(*ast.ClassDecl)
	require.Len(t, c.Members, 2)
	assert.Equal(t, "1", c.Members[0].Body)
	assert.Equal(t, "2", c.Members[1].Body)
}

func TestParseOverloadSignaturesSkipped(t *testing.T) {
	t.Parallel()
	f := parse(t, `class C {
    pick(a: string): string;
    pick(a: number): number;
    pick(a: any): any { return a; }
}`)
	c := f.Stmts[0].(*ast.ClassDecl)
	require.Len(t, c.Members, 1)
	assert.Equal(t, "a: any", c.Members[0].Params)
}

func TestParseNestedClassInBlock(t *testing.T) {
	t.Parallel()
	f := parse(t, `function wrap() {
    @NativeClass
    class Inner {
    }
    return Inner;
}`)
	require.Len(t, f.Stmts, 1)
	raw, ok := f.Stmts[0].(*ast.RawStmt)
	require.True(t, ok)

	var found *ast.ClassDecl
	for _, part := range raw.Parts {
		block, ok := part.(*ast.RawBlock)
		if !ok {
			continue
		}
		for _, s := range block.Stmts {
			if c, ok := s.(*ast.ClassDecl); ok {
				found = c
			}
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Inner", found.Name)
}

func TestParseRawFallbacks(t *testing.T) {
	t.Parallel()
	sources := []string{
		"declare class Ambient {\n    member: string;\n}",
		"const C = class {\n};",
		"@standalone\nconst x = decorate();",
		"class P {\n    #secret = 1;\n}",
	}
	for _, source := range sources {
		f := parse(t, source)
		for _, s := range f.Stmts {
			_, isClass := s.(*ast.ClassDecl)
			assert.False(t, isClass, "expected raw statement for %q", source)
		}
		assert.Equal(t, source, ast.PrintString(f))
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	sources := map[string]string{
		"unterminated body":     "@NativeClass\nclass Broken {\n    method() { return 1; }\n",
		"unterminated string":   "let s = \"no end",
		"unterminated template": "let t = `no end",
		"unterminated comment":  "/* no end",
		"unterminated marker":   "@NativeClass(1,\nclass Foo {\n}",
		"unterminated block":    "function f() {\n    let a = 1;\n",
	}
	for name, source := range sources {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("test.src", []byte(source), reporter.NewHandler(nil))
			require.Error(t, err)
			var ewp reporter.ErrorWithPos
			require.ErrorAs(t, err, &ewp)
			assert.Equal(t, "test.src", ewp.GetPosition().Filename)
		})
	}
}

func TestParseCollectingReporterStillFails(t *testing.T) {
	t.Parallel()
	var reported []reporter.ErrorWithPos
	rep := reporter.NewReporter(func(err reporter.ErrorWithPos) error {
		reported = append(reported, err)
		return nil
	}, nil)
	_, err := Parse("test.src", []byte("let s = \"no end"), reporter.NewHandler(rep))
	require.Error(t, err)
	assert.NotEmpty(t, reported)
}

func TestParsePositions(t *testing.T) {
	t.Parallel()
	f := parse(t, "let a = 1;\n@NativeClass\nclass B {\n}")
	require.Len(t, f.Stmts, 2)
	c := f.Stmts[1].(*ast.ClassDecl)
	assert.Equal(t, 2, c.Start().Line)
	assert.Equal(t, 1, c.Start().Col)
	require.Len(t, c.Decorators, 1)
	assert.Equal(t, 2, c.Decorators[0].Start().Line)
}

func TestPrintStripped(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "own line",
			source: "@NativeClass\nclass A {\n}",
			want:   "class A {\n}",
		},
		{
			name:   "with args",
			source: "@NativeClass(1,2)\nclass A {\n}",
			want:   "class A {\n}",
		},
		{
			name:   "inline",
			source: "@NativeClass class A {\n}",
			want:   "class A {\n}",
		},
		{
			name:   "other decorators kept",
			source: "@Keep()\n@NativeClass\n@Also\nclass A {\n}",
			want:   "@Keep()\n@Also\nclass A {\n}",
		},
		{
			name:   "indented",
			source: "    @NativeClass\n    class A {\n    }",
			want:   "    class A {\n    }",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := parse(t, tc.source)
			var c *ast.ClassDecl
			err := ast.Walk(f, func(s ast.Statement) error {
				if cd, ok := s.(*ast.ClassDecl); ok {
					c = cd
				}
				return nil
			})
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, tc.want, c.PrintStripped("NativeClass"))
		})
	}
}
