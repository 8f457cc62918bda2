package expression

import "sync"

// Cache memoises compiled expressions by source text. Entries are never
// evicted; the set of expressions a view defines is small and fixed.
// Compiling the same source twice returns the same *Expression.
type Cache struct {
	compiler *Compiler

	mu      sync.RWMutex
	entries map[string]*Expression
}

// NewCache returns a cache compiling through compiler, or through a fresh
// default compiler when nil.
func NewCache(compiler *Compiler) *Cache {
	if compiler == nil {
		compiler = NewCompiler()
	}
	return &Cache{
		compiler: compiler,
		entries:  make(map[string]*Expression),
	}
}

// Compiler exposes the underlying compiler, e.g. to register filters.
func (c *Cache) Compiler() *Compiler { return c.compiler }

// Compile returns the cached expression for src, compiling it on first use.
// Parse failures are not cached.
func (c *Cache) Compile(src string) (*Expression, error) {
	c.mu.RLock()
	if e, ok := c.entries[src]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[src]; ok {
		return e, nil
	}

	e, err := c.compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	c.entries[src] = e
	return e, nil
}

// Len reports the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
