package template

import "sync"

// Cache memoises compiled templates by source text, like expression.Cache.
type Cache struct {
	compiler *Compiler

	mu      sync.RWMutex
	entries map[string]*Template
}

// NewCache returns a cache compiling through compiler, or through a fresh
// default compiler when nil.
func NewCache(compiler *Compiler) *Cache {
	if compiler == nil {
		compiler = NewCompiler()
	}
	return &Cache{
		compiler: compiler,
		entries:  make(map[string]*Template),
	}
}

// Compile returns the cached template for src, compiling it on first use.
func (c *Cache) Compile(src string) (*Template, error) {
	c.mu.RLock()
	if t, ok := c.entries[src]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.entries[src]; ok {
		return t, nil
	}
	t, err := c.compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	c.entries[src] = t
	return t, nil
}

// Len reports the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
