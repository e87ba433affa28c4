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

// Package emitcache provides a bounded cache of lowered class fragments.
//
// Lowering a class fragment is deterministic: the same fragment text under
// the same configuration always produces the same emitted text. The cache
// exploits that to skip recompilation of fragments that recur across files,
// which is common for generated sources and for watch-mode rebuilds.
package emitcache

import (
	"container/list"
	"sync"

	"github.com/tidwall/btree"
)

type entry struct {
	key string
	val string
	// Position in the recency list; front is most recent.
	elem *list.Element
}

// Cache is a fixed-capacity cache with least-recently-used eviction.
// It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	cap    int
	index  btree.Map[string, *entry]
	recent *list.List
}

// New returns a cache holding at most capacity entries. A capacity of zero
// or less yields a cache that stores nothing, which callers may use to
// disable caching without branching.
func New(capacity int) *Cache {
	return &Cache{
		cap:    capacity,
		recent: list.New(),
	}
}

// Get returns the cached value for key, if present, and marks it recently
// used.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.index.Get(key)
	if !ok {
		return "", false
	}
	c.recent.MoveToFront(e.elem)
	return e.val, true
}

// Put stores val under key, evicting the least recently used entry when the
// cache is full. Storing an existing key refreshes its value and recency.
func (c *Cache) Put(key, val string) {
	if c.cap <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.index.Get(key); ok {
		e.val = val
		c.recent.MoveToFront(e.elem)
		return
	}
	for c.index.Len() >= c.cap {
		oldest := c.recent.Back()
		if oldest == nil {
			break
		}
		c.recent.Remove(oldest)
		c.index.Delete(oldest.Value.(*entry).key)
	}
	e := &entry{key: key, val: val}
	e.elem = c.recent.PushFront(e)
	c.index.Set(key, e)
}

// Len reports the number of entries currently stored.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Len()
}

// Keys returns the stored keys in sorted order. It exists for tests and
// diagnostics; recency is unaffected.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.index.Len())
	c.index.Scan(func(key string, _ *entry) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
