// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package cache provides the in-memory caching primitives used by the
// recommendation engine and the analysis handlers.
package cache

import (
	"sync"
	"time"
)

// entry is a node of the LRU's doubly-linked list with TTL support.
type entry struct {
	key       string
	value     interface{}
	prev      *entry
	next      *entry
	expiresAt time.Time
}

// LRU implements a thread-safe Least Recently Used cache with TTL support.
//
// Key features:
//   - O(1) Get, Add, Remove operations
//   - O(1) LRU eviction when capacity is reached
//   - TTL support with lazy expiration
//   - Thread-safe operations
//
// This implementation uses a doubly-linked list for ordering and a hashmap
// for lookups.
type LRU struct {
	mu sync.RWMutex

	// capacity is the maximum number of entries
	capacity int

	// ttl is the time-to-live for entries
	ttl time.Duration

	// items maps keys to linked list nodes for O(1) lookup
	items map[string]*entry

	// head and tail are sentinel nodes for the doubly-linked list.
	// head.next is the most recently used, tail.prev is the least recently used.
	head *entry
	tail *entry

	// stats
	hits   int64
	misses int64
}

// NewLRU creates a new LRU cache with the specified capacity and TTL.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		head:     &entry{},
		tail:     &entry{},
	}

	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get returns the cached value for key, if present and unexpired.
// A hit promotes the entry to most recently used.
func (c *LRU) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.removeEntry(e)
		c.misses++
		return nil, false
	}

	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Add inserts or replaces the value for key, evicting the least recently
// used entry when at capacity.
func (c *LRU) Add(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	if len(c.items) >= c.capacity {
		c.removeEntry(c.tail.prev)
	}

	e := &entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.items[key] = e
	c.insertFront(e)
}

// Remove deletes the entry for key if present.
func (c *LRU) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
	}
}

// Purge removes all entries.
func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of entries, including not-yet-collected expired ones.
func (c *LRU) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns cumulative hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// removeEntry unlinks an entry and drops it from the map (mu held).
func (c *LRU) removeEntry(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

// insertFront links an entry as most recently used (mu held).
func (c *LRU) insertFront(e *entry) {
	e.next = c.head.next
	e.prev = c.head
	c.head.next.prev = e
	c.head.next = e
}

// moveToFront promotes an entry to most recently used (mu held).
func (c *LRU) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.insertFront(e)
}
