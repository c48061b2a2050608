// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// LRU is a typed LRU cache backed by golang-lru.
type LRU[K comparable, V any] struct {
	c *lru.Cache
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{c}, nil
}

// Get returns the cached value of key.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.c.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Add adds or replaces the value of key.
func (l *LRU[K, V]) Add(key K, value V) {
	l.c.Add(key, value)
}

// Remove evicts key.
func (l *LRU[K, V]) Remove(key K) {
	l.c.Remove(key)
}

// Purge clears the cache.
func (l *LRU[K, V]) Purge() {
	l.c.Purge()
}

// Len returns the count of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.c.Len()
}

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader func(key K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		var zero V
		return zero, err
	}
	l.Add(key, v)
	return v, nil
}
