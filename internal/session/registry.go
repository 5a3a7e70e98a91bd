// Package session holds the in-memory registry of authenticated sessions.
// Sessions live for the process lifetime only; nothing is persisted.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// DeriveToken maps a credential key to its session token: a version 5 UUID
// over the URL namespace. The derivation is deterministic, so a caller
// presenting key and token can be checked without a registry lookup, and
// tokens issued by earlier deployments remain valid input.
func DeriveToken(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// Registry maps session tokens to resolved identities. It is shared by all
// in-flight requests; a single mutex domain is sufficient at its size.
// Construct one at process start and inject it — there is no package-level
// instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]types.UserData
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]types.UserData)}
}

// Create derives the token for key, stores data under it, and returns the
// token. An existing entry for the same token is overwritten.
func (r *Registry) Create(key string, data types.UserData) string {
	token := DeriveToken(key)
	r.mu.Lock()
	r.sessions[token] = data
	r.mu.Unlock()
	return token
}

// Lookup returns the identity stored under token.
func (r *Registry) Lookup(token string) (types.UserData, bool) {
	r.mu.RLock()
	data, ok := r.sessions[token]
	r.mu.RUnlock()
	return data, ok
}

// Remove deletes the session for token, reporting whether one existed.
func (r *Registry) Remove(token string) bool {
	r.mu.Lock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
