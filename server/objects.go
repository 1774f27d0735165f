package server

import (
	"fmt"
	"sync"
)

// ObjectCache maps handle numbers to server-side objects. Handles come
// from a counter that only grows, so a number is never reused while the
// server lives even after its entry has been released.
type ObjectCache struct {
	mu      sync.RWMutex
	objects map[int64]any
	counter int64
}

// NewObjectCache creates an empty cache.
func NewObjectCache() *ObjectCache {
	return &ObjectCache{objects: make(map[int64]any)}
}

// Store registers value under a fresh handle and returns it. Storing the
// same value twice yields two handles.
func (c *ObjectCache) Store(value any) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	c.objects[c.counter] = value
	return c.counter
}

// Lookup retrieves the object for a handle.
func (c *ObjectCache) Lookup(number int64) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.objects[number]
	return v, ok
}

// Release removes a handle. It reports whether the handle was present.
func (c *ObjectCache) Release(number int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.objects[number]; !ok {
		return false
	}
	delete(c.objects, number)
	return true
}

// Len returns the number of live handles.
func (c *ObjectCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}

// Counter returns the last handle number allocated.
func (c *ObjectCache) Counter() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counter
}

// ObjectToRef implements wire.Filter: every encode mints a new handle.
func (c *ObjectCache) ObjectToRef(v any) (int64, error) {
	return c.Store(v), nil
}

// RefToObject implements wire.Filter.
func (c *ObjectCache) RefToObject(n int64) (any, error) {
	v, ok := c.Lookup(n)
	if !ok {
		return nil, fmt.Errorf("no such object: %d", n)
	}
	return v, nil
}
