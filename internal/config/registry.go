package config

import (
	"sort"
	"sync"
)

// Value is a registry entry as stored, before interpretation.
type Value struct {
	raw any
}

// Raw returns the stored value.
func (v Value) Raw() any {
	return v.raw
}

// Float64 resolves numeric values to a float64. Strings, booleans and
// anything else non-numeric report false.
func (v Value) Float64() (float64, bool) {
	switch n := v.raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Registry is a concurrency-safe key/value store of settings. Readers see
// every write immediately; nothing is cached on their side.
type Registry struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewRegistry copies values into a new Registry.
func NewRegistry(values map[string]any) *Registry {
	r := &Registry{values: make(map[string]any, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Get returns the value stored under key.
func (r *Registry) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return Value{}, false
	}
	return Value{raw: v}, true
}

func (r *Registry) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
}

func (r *Registry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
}

// Replace swaps the whole contents, as on a config reload.
func (r *Registry) Replace(values map[string]any) {
	fresh := make(map[string]any, len(values))
	for k, v := range values {
		fresh[k] = v
	}
	r.mu.Lock()
	r.values = fresh
	r.mu.Unlock()
}

// Keys returns the stored keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
