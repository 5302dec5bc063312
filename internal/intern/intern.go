// Package intern provides canonical strings for tokens the flatteners emit
// over and over: "-c" burst tokens and "--name" long triggers.
package intern

import (
	"sync"
)

// Interner is a thread-safe string set.
type Interner struct {
	strings map[string]string
	mu      sync.RWMutex
}

// NewInterner creates an interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	if capacity <= 0 {
		capacity = 64
	}
	return &Interner{strings: make(map[string]string, capacity)}
}

// Intern returns the canonical instance of s.
func (in *Interner) Intern(s string) string {
	in.mu.RLock()
	if v, ok := in.strings[s]; ok {
		in.mu.RUnlock()
		return v
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if v, ok := in.strings[s]; ok {
		return v
	}
	in.strings[s] = s
	return s
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}

// shortTokens holds "-c" for every printable ASCII c.
var shortTokens [128]string

func init() {
	for c := ' ' + 1; c < 127; c++ {
		shortTokens[c] = "-" + string(rune(c))
	}
}

var global = NewInterner(128)

// Short returns the single-dash token for r ("-x" for 'x').
// ASCII tokens come from a fixed table. Other runes get a fresh string that
// is not interned; pass it to Intern once it is known to name an option.
func Short(r rune) string {
	if r > ' ' && r < 127 {
		return shortTokens[r]
	}
	return "-" + string(r)
}

// Long returns the interned double-dash token for name.
func Long(name string) string {
	return global.Intern("--" + name)
}

// Intern interns s in the process-wide interner.
func Intern(s string) string {
	return global.Intern(s)
}

// Len returns the number of strings in the process-wide interner.
func Len() int {
	return global.Len()
}
