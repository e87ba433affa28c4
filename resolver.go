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
	"fmt"
	"os"
	"path/filepath"
)

// Resolver turns file names into source contents. This is how a Transformer
// loads the files it is asked to transform.
type Resolver interface {
	FindSourceFile(name string) ([]byte, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(string) ([]byte, error)

var _ Resolver = ResolverFunc(nil)

func (f ResolverFunc) FindSourceFile(name string) ([]byte, error) {
	return f(name)
}

// CompositeResolver asks each of its resolvers in order and returns the
// first successful result. If all fail, the first error is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

func (c CompositeResolver) FindSourceFile(name string) ([]byte, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%s: no resolvers configured", name)
	}
	var firstErr error
	for _, r := range c {
		data, err := r.FindSourceFile(name)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// SourceResolver loads files from disk. If Root is set, names are resolved
// relative to it; otherwise they are used as given.
type SourceResolver struct {
	Root string
}

var _ Resolver = (*SourceResolver)(nil)

func (r *SourceResolver) FindSourceFile(name string) ([]byte, error) {
	path := name
	if r.Root != "" {
		path = filepath.Join(r.Root, name)
	}
	return os.ReadFile(path)
}

// MapResolver serves sources from an in-memory map, keyed by file name.
type MapResolver map[string]string

var _ Resolver = MapResolver(nil)

func (m MapResolver) FindSourceFile(name string) ([]byte, error) {
	src, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return []byte(src), nil
}
