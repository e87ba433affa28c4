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

func TestNormalizeFlipsDescriptors(t *testing.T) {
	t.Parallel()
	in := `Object.defineProperty(A.prototype, "m", {
    value: function () { },
    writable: true,
    enumerable: false,
    configurable: true
});`
	want := `Object.defineProperty(A.prototype, "m", {
    value: function () { },
    writable: true,
    enumerable: true,
    configurable: true
});`
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeLeavesUnrelatedText(t *testing.T) {
	t.Parallel()
	cases := []string{
		`var d = { enumerable: false };`,
		`log("enumerable: false");`,
		"// enumerable: false\nvar x = 1;",
		`other.defineProperty(A, "m", { enumerable: false });`,
		`Object.keys(x);`,
	}
	for _, in := range cases {
		assert.Equal(t, in, Normalize(in), "input %q", in)
	}
}

func TestNormalizeNestedLiteralInsideCall(t *testing.T) {
	t.Parallel()
	// The value is a function whose body builds its own descriptor-shaped
	// object; only the descriptor's top-level attribute is rewritten, the
	// user code inside the value is not.
	in := `Object.defineProperty(A, "m", {
    value: function () { return { enumerable: false }; },
    enumerable: false
});`
	got := Normalize(in)
	assert.Contains(t, got, "return { enumerable: false };")
	assert.Contains(t, got, "\n    enumerable: true\n")
}

func TestNormalizeNestedDefinePropertyInValue(t *testing.T) {
	t.Parallel()
	// A defineProperty call inside a member body is itself patched at its
	// own descriptor's top level.
	in := `Object.defineProperty(A, "m", {
    value: function () {
        Object.defineProperty(this, "x", { value: 1, enumerable: false });
        var plain = { enumerable: false };
        return plain;
    },
    enumerable: false
});`
	got := Normalize(in)
	assert.Contains(t, got, `Object.defineProperty(this, "x", { value: 1, enumerable: true });`)
	assert.Contains(t, got, "var plain = { enumerable: false };")
	assert.Contains(t, got, "\n    enumerable: true\n")
}

func TestNormalizeStringInsideCallUntouched(t *testing.T) {
	t.Parallel()
	in := `Object.defineProperty(A, "m", {
    value: "enumerable: false",
    enumerable: false,
    configurable: true
});`
	got := Normalize(in)
	assert.Contains(t, got, `value: "enumerable: false",`)
	assert.Contains(t, got, "enumerable: true,")
}

func TestNormalizeMultipleCalls(t *testing.T) {
	t.Parallel()
	in := `Object.defineProperty(A.prototype, "a", { value: 1, enumerable: false });
between();
Object.defineProperty(A, "b", { value: 2, enumerable: false });`
	got := Normalize(in)
	assert.NotContains(t, got, "false")
	assert.Contains(t, got, "between();")
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	in := `Object.defineProperty(A, "m", { value: 1, enumerable: false });`
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}
