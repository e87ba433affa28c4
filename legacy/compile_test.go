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
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleClass(t *testing.T) {
	t.Parallel()
	fragment := `class Greeter {
    greet() { return "hi"; }
}`
	got, warnings, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, `var Greeter = /** @class */ (function () {
    function Greeter() {
    }
    Object.defineProperty(Greeter.prototype, "greet", {
        value: function () { return "hi"; },
        writable: true,
        enumerable: false,
        configurable: true
    });
    return Greeter;
}());`, got)
}

func TestCompileDerivedClass(t *testing.T) {
	t.Parallel()
	fragment := `class Dog extends Animal {
    constructor(name: string) { super(name); }
    bark() { super.speak(); }
}`
	got, warnings, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, `var Dog = /** @class */ (function (_super) {
    function Dog(name) { _super.call(this, name); }
    Dog.prototype = Object.create(_super.prototype);
    Dog.prototype.constructor = Dog;
    Object.setPrototypeOf(Dog, _super);
    Object.defineProperty(Dog.prototype, "bark", {
        value: function () { _super.prototype.speak.call(this); },
        writable: true,
        enumerable: false,
        configurable: true
    });
    return Dog;
}(Animal));`, got)
}

func TestCompileDerivedDefaultConstructor(t *testing.T) {
	t.Parallel()
	fragment := `class Empty extends Base {
}`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `var Empty = /** @class */ (function (_super) {
    function Empty() {
        return _super.apply(this, arguments) || this;
    }
    Empty.prototype = Object.create(_super.prototype);
    Empty.prototype.constructor = Empty;
    Object.setPrototypeOf(Empty, _super);
    return Empty;
}(Base));`, got)
}

func TestCompileAccessorsCollapse(t *testing.T) {
	t.Parallel()
	fragment := `class Box {
    get value() { return this._v; }
    set value(v) { this._v = v; }
}`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `var Box = /** @class */ (function () {
    function Box() {
    }
    Object.defineProperty(Box.prototype, "value", {
        get: function () { return this._v; },
        set: function (v) { this._v = v; },
        enumerable: false,
        configurable: true
    });
    return Box;
}());`, got)
}

func TestCompileStaticAndFields(t *testing.T) {
	t.Parallel()
	fragment := `class Counter {
    count = 0;
    label: string;
    static origin() { return new Counter(); }
}`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	// The initialized field is installed; the type-only field vanishes; the
	// static member lands on the constructor, not the prototype.
	assert.Equal(t, `var Counter = /** @class */ (function () {
    function Counter() {
    }
    Object.defineProperty(Counter.prototype, "count", {
        value: 0,
        writable: true,
        enumerable: false,
        configurable: true
    });
    Object.defineProperty(Counter, "origin", {
        value: function () { return new Counter(); },
        writable: true,
        enumerable: false,
        configurable: true
    });
    return Counter;
}());`, got)
}

func TestCompileArrowDefaultKeepsLaterParams(t *testing.T) {
	t.Parallel()
	fragment := `class A {
    m(cb = () => 1, x: number) { return x; }
}`
	got, warnings, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, `var A = /** @class */ (function () {
    function A() {
    }
    Object.defineProperty(A.prototype, "m", {
        value: function (cb = () => 1, x) { return x; },
        writable: true,
        enumerable: false,
        configurable: true
    });
    return A;
}());`, got)
}

func TestCompileClassDecoratorApplied(t *testing.T) {
	t.Parallel()
	fragment := `@sealed
class Plate {
}`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, got, "Plate = sealed(Plate) || Plate;")
	assert.NotContains(t, got, "@sealed")
}

func TestCompileExportDefault(t *testing.T) {
	t.Parallel()
	fragment := `export default class App {
}`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `var App = /** @class */ (function () {
    function App() {
    }
    return App;
}());
export default App;`, got)
}

func TestCompileExportKeepsPrefix(t *testing.T) {
	t.Parallel()
	fragment := `export class Api {
}`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `export var Api = /** @class */ (function () {
    function Api() {
    }
    return Api;
}());`, got)
}

func TestCompileMemberDecoratorWarns(t *testing.T) {
	t.Parallel()
	fragment := `class Widget {
    @tracked
    render() { return 1; }
}`
	got, warnings, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "@tracked")
	assert.NotContains(t, got, "@tracked")
}

func TestCompileParameterPropertyWarns(t *testing.T) {
	t.Parallel()
	fragment := `class Point {
    constructor(private x: number) { }
}`
	got, warnings, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, `"x"`)
	assert.Contains(t, got, "function Point(x) { }")
}

func TestCompileSurroundingTextPreserved(t *testing.T) {
	t.Parallel()
	fragment := `const n = 1;
class Tiny {
}
const m = 2;`
	got, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `const n = 1;
var Tiny = /** @class */ (function () {
    function Tiny() {
    }
    return Tiny;
}());
const m = 2;`, got)
}

func TestCompileRejectsUnsupportedConfig(t *testing.T) {
	t.Parallel()
	_, _, err := Compile("test.src", "class A {\n}", Config{Target: TargetPrototype, Module: ModuleNone, Helpers: true})
	assert.Error(t, err)
}

func TestCompileSyntaxErrorFails(t *testing.T) {
	t.Parallel()
	_, _, err := Compile("test.src", "class A {", DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestCompileDeterministic(t *testing.T) {
	t.Parallel()
	fragment := `class Multi {
    a() { return 1; }
    get b() { return 2; }
    set b(v) { }
    static c = 3;
}`
	first, _, err := Compile("test.src", fragment, DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, _, err := Compile("test.src", fragment, DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
