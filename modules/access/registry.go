package access

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
)

// Registry holds the accepted bearer tokens. Only digests are kept.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

type entry struct {
	digest    [sha256.Size]byte
	principal Principal
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Load replaces the registry content. Each credential is "name:token" or a
// bare token, which is registered under the name "token-N".
func (r *Registry) Load(credentials []string) error {
	entries := make([]entry, 0, len(credentials))
	for i, cred := range credentials {
		cred = strings.TrimSpace(cred)
		if cred == "" {
			continue
		}
		name, token, ok := strings.Cut(cred, ":")
		if !ok {
			name, token = fmt.Sprintf("token-%d", i+1), cred
		}
		if token == "" {
			return fmt.Errorf("empty token for %q", name)
		}
		entries = append(entries, entry{
			digest:    sha256.Sum256([]byte(token)),
			principal: Principal{Name: name},
		})
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Lookup returns the principal owning token.
func (r *Registry) Lookup(token string) (Principal, bool) {
	digest := sha256.Sum256([]byte(token))

	r.mu.RLock()
	defer r.mu.RUnlock()

	found := -1
	for i := range r.entries {
		if subtle.ConstantTimeCompare(digest[:], r.entries[i].digest[:]) == 1 {
			found = i
		}
	}
	if found < 0 {
		return Principal{}, false
	}
	return r.entries[found].principal, true
}
