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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteSuper(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{`{ super(); }`, `{ _super.call(this); }`},
		{`{ super(a, b); }`, `{ _super.call(this, a, b); }`},
		{`{ super.speak(); }`, `{ _super.prototype.speak.call(this); }`},
		{`{ super.speak(x); }`, `{ _super.prototype.speak.call(this, x); }`},
		{`{ return super.name; }`, `{ return _super.prototype.name; }`},
		{`{ var f = super; }`, `{ var f = _super; }`},
		{`{ this.super.thing(); }`, `{ this.super.thing(); }`},
		{`{ log("super() call"); }`, `{ log("super() call"); }`},
		{`{ // super() here
 }`, `{ // super() here
 }`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rewriteSuper(tc.in), "input %q", tc.in)
	}
}

func TestEraseParams(t *testing.T) {
	t.Parallel()
	noWarn := func(format string, args ...any) {
		t.Errorf("unexpected warning: "+format, args...)
	}
	cases := []struct {
		in, want string
	}{
		{``, ``},
		{`a`, `a`},
		{`a, b`, `a, b`},
		{`a: string`, `a`},
		{`a: string, b: number`, `a, b`},
		{`a?: string`, `a`},
		{`a: Map<string, number>`, `a`},
		{`a: string = "x,y"`, `a = "x,y"`},
		{`a = 5`, `a = 5`},
		{`...rest: any[]`, `...rest`},
		{`{ x, y }: Point`, `{ x, y }: Point`},
		{`cb = () => 1, x: number`, `cb = () => 1, x`},
		{`cb: (x: number) => void, y: string`, `cb, y`},
		{`limit = a > b ? a : b, tag: string`, `limit = a > b ? a : b, tag`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, eraseParams(tc.in, noWarn), "input %q", tc.in)
	}
}

func TestEraseParamsWarnings(t *testing.T) {
	t.Parallel()
	var warned []string
	warn := func(format string, args ...any) {
		warned = append(warned, format)
	}

	got := eraseParams(`@Inject() service: Service, private count: number`, warn)
	assert.Equal(t, `service, count`, got)
	assert.Len(t, warned, 2)
}

func TestSplitParams(t *testing.T) {
	t.Parallel()
	assert.Nil(t, splitParams("  "))
	assert.Equal(t, []string{"a: Map<K, V>", " b"}, splitParams("a: Map<K, V>, b"))
	assert.Equal(t, []string{`a = "x,y"`, ` b`}, splitParams(`a = "x,y", b`))
	assert.Equal(t, []string{"cb = () => 1", " b"}, splitParams("cb = () => 1, b"))
	assert.Equal(t, []string{"a = x > y", " b"}, splitParams("a = x > y, b"))
}
