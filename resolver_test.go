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

package declower

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapResolver(t *testing.T) {
	t.Parallel()
	r := MapResolver{"a.src": "let a = 1;"}
	data, err := r.FindSourceFile("a.src")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", string(data))

	_, err = r.FindSourceFile("missing.src")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceResolver(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.src"), []byte("let a = 1;"), 0o644))

	rooted := &SourceResolver{Root: dir}
	data, err := rooted.FindSourceFile("a.src")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", string(data))

	bare := &SourceResolver{}
	data, err = bare.FindSourceFile(filepath.Join(dir, "a.src"))
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", string(data))
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	failing := ResolverFunc(func(string) ([]byte, error) { return nil, boom })
	backing := MapResolver{"a.src": "let a = 1;"}

	c := CompositeResolver{failing, backing}
	data, err := c.FindSourceFile("a.src")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;", string(data))

	// All resolvers failing yields the first error.
	_, err = c.FindSourceFile("missing.src")
	assert.ErrorIs(t, err, boom)

	_, err = CompositeResolver{}.FindSourceFile("a.src")
	assert.Error(t, err)
}
