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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/declower/declower/ast"
	"github.com/declower/declower/internal/emitcache"
	"github.com/declower/declower/legacy"
	"github.com/declower/declower/parser"
	"github.com/declower/declower/reporter"
)

// DefaultMarker is the decorator name that marks a class for lowering when
// Transformer.Marker is unset.
const DefaultMarker = "NativeClass"

// EmitCache caches lowered fragments across Transform calls. Lowering is
// deterministic, so a cache changes only throughput, never output.
type EmitCache interface {
	Get(key string) (string, bool)
	Put(key, val string)
}

// NewEmitCache returns an EmitCache with least-recently-used eviction and
// the given capacity.
func NewEmitCache(capacity int) EmitCache {
	return emitcache.New(capacity)
}

// Transformer rewrites marked class declarations in source files into their
// lowered form.
//
// For each requested file, the transformer parses the source into a loose
// statement tree, finds class declarations carrying the marker decorator,
// and replaces each one with the output of compiling just that declaration
// (marker removed) under the fixed legacy configuration. Everything else in
// the file is preserved byte for byte.
type Transformer struct {
	// Resolves file names into source code. This is the only required field.
	Resolver Resolver
	// The maximum parallelism to use when transforming. If unspecified or
	// set to a non-positive value, then min(runtime.NumCPU(),
	// runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the transform after encountering any
	// errors and ignores all warnings.
	Reporter reporter.Reporter
	// The decorator name that selects classes for lowering. Matched exactly
	// against the decorator's dotted name. Defaults to DefaultMarker.
	Marker string
	// Configuration for the nested compilation of extracted fragments. The
	// zero value means legacy.DefaultConfig().
	Config legacy.Config
	// Optional cache of lowered fragments, shared across calls and across
	// transformers.
	Cache EmitCache
}

// Result is the outcome of transforming one file.
type Result struct {
	// The file name as given to Transform.
	Name string
	// The transformed statement tree. When no statement was rewritten this
	// is the parsed tree itself, not a copy.
	File *ast.SourceFile
	// The serialized output text.
	Text string
	// Whether any class declaration was rewritten. When false, Text equals
	// the input source.
	Modified bool
}

// Transform transforms the given file names, loading their contents through
// the transformer's resolver. Files are processed concurrently up to the
// configured parallelism; results are returned in the order requested. A
// file name appearing more than once is transformed only once.
func (t *Transformer) Transform(ctx context.Context, files ...string) ([]Result, error) {
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := t.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}

	e := &executor{
		t:       t,
		s:       semaphore.NewWeighted(int64(par)),
		results: map[string]*result{},
	}

	pending := make([]*result, len(files))
	for i, f := range files {
		pending[i] = e.transform(ctx, f)
	}

	out := make([]Result, len(files))
	for i, r := range pending {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			return nil, r.err
		}
		out[i] = r.res
	}
	return out, nil
}

// TransformSource transforms a single in-memory source. It is the
// synchronous core used by Transform for each resolved file.
func (t *Transformer) TransformSource(name string, source []byte) (Result, error) {
	h := reporter.NewHandler(t.Reporter)
	return t.transformSource(name, source, h)
}

type result struct {
	ready chan struct{}
	res   Result
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(res Result) {
	r.res = res
	close(r.ready)
}

type executor struct {
	t *Transformer
	s *semaphore.Weighted

	mu      sync.Mutex
	results map[string]*result
}

func (e *executor) transform(ctx context.Context, file string) *result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r := e.results[file]; r != nil {
		return r
	}
	r := &result{ready: make(chan struct{})}
	e.results[file] = r
	go e.doTransform(ctx, file, r)
	return r
}

func (e *executor) doTransform(ctx context.Context, file string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	source, err := e.t.Resolver.FindSourceFile(file)
	if err != nil {
		r.fail(err)
		return
	}

	h := reporter.NewHandler(e.t.Reporter)
	res, err := e.t.transformSource(file, source, h)
	if err != nil {
		r.fail(err)
		return
	}
	r.complete(res)
}

func (t *Transformer) transformSource(name string, source []byte, h *reporter.Handler) (Result, error) {
	f, err := parser.Parse(name, source, h)
	if err != nil {
		return Result{}, err
	}

	stmts, changed, err := t.lowerStmts(f.Stmts, h)
	if err != nil {
		return Result{}, err
	}
	if err := h.Err(); err != nil {
		return Result{}, err
	}

	if !changed {
		return Result{Name: name, File: f, Text: string(f.Info().Data())}, nil
	}

	out := ast.NewSourceFile(f.Info(), stmts, f.EOFTrivia)
	return Result{Name: name, File: out, Text: ast.PrintString(out), Modified: true}, nil
}

// lowerStmts rewrites marked classes in a statement list. The returned slice
// shares unmodified statements with the input; when nothing changes the
// input slice itself is returned.
func (t *Transformer) lowerStmts(stmts []ast.Statement, h *reporter.Handler) ([]ast.Statement, bool, error) {
	var out []ast.Statement
	changed := false
	for i, s := range stmts {
		repl, stmtChanged, err := t.lowerStmt(s, h)
		if err != nil {
			return nil, false, err
		}
		if stmtChanged && !changed {
			out = make([]ast.Statement, i, len(stmts))
			copy(out, stmts[:i])
			changed = true
		}
		if changed {
			out = append(out, repl)
		}
	}
	if !changed {
		return stmts, false, nil
	}
	return out, true, nil
}

func (t *Transformer) lowerStmt(s ast.Statement, h *reporter.Handler) (ast.Statement, bool, error) {
	switch s := s.(type) {
	case *ast.ClassDecl:
		marker := t.markerDecorator(s)
		if marker == nil {
			return s, false, nil
		}
		text, err := t.lowerClass(s, marker, h)
		if err != nil {
			return nil, false, err
		}
		return ast.NewVerbatimStmt(s, text), true, nil
	case *ast.RawStmt:
		return t.lowerRawStmt(s, h)
	default:
		return s, false, nil
	}
}

func (t *Transformer) lowerRawStmt(s *ast.RawStmt, h *reporter.Handler) (ast.Statement, bool, error) {
	var parts []ast.RawPart
	changed := false
	for i, p := range s.Parts {
		b, ok := p.(*ast.RawBlock)
		if !ok {
			if changed {
				parts = append(parts, p)
			}
			continue
		}
		inner, blockChanged, err := t.lowerStmts(b.Stmts, h)
		if err != nil {
			return nil, false, err
		}
		if blockChanged && !changed {
			parts = make([]ast.RawPart, i, len(s.Parts))
			copy(parts, s.Parts[:i])
			changed = true
		}
		if changed {
			if blockChanged {
				parts = append(parts, &ast.RawBlock{Stmts: inner, Trailing: b.Trailing})
			} else {
				parts = append(parts, b)
			}
		}
	}
	if !changed {
		return s, false, nil
	}
	return &ast.RawStmt{StmtInfo: s.StmtInfo, Parts: parts}, true, nil
}

// markerDecorator returns the class's marker decorator, or nil. The match is
// by exact name; argument lists are irrelevant to selection and are removed
// along with the decorator.
func (t *Transformer) markerDecorator(c *ast.ClassDecl) *ast.Decorator {
	marker := t.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	for _, d := range c.Decorators {
		if d.Name == marker {
			return d
		}
	}
	return nil
}

func (t *Transformer) lowerClass(c *ast.ClassDecl, marker *ast.Decorator, h *reporter.Handler) (string, error) {
	cfg := t.Config
	if cfg == (legacy.Config{}) {
		cfg = legacy.DefaultConfig()
	}

	fragment := c.PrintStripped(marker.Name)

	var key string
	if t.Cache != nil {
		sum := sha256.Sum256([]byte(fragment))
		key = hex.EncodeToString(sum[:]) + "/" + cfg.String()
		if text, ok := t.Cache.Get(key); ok {
			return text, nil
		}
	}

	text, warnings, err := legacy.Compile(c.Start().Filename, fragment, cfg)
	if err != nil {
		return "", h.HandleErrorf(c.Start(), "lowering class %s: %v", c.Name, err)
	}
	for _, w := range warnings {
		h.HandleWarningf(c.Start(), "class %s: %s", c.Name, w.Message)
	}
	text = legacy.Normalize(text)

	if t.Cache != nil {
		t.Cache.Put(key, text)
	}
	return text, nil
}
