// Package guard supersedes in-flight resolution work when a newer query
// arrives. Exactly one token is current at a time; asynchronous
// continuations check IsCurrent immediately before every state-publishing
// side effect and no-op when they have been superseded. Cancellation is
// cooperative: a network call already in flight still completes, but its
// result is discarded.
package guard

import (
	"sync"

	"github.com/google/uuid"
)

// Token is the opaque marker of one query's currency. Zero value is never
// current.
type Token struct {
	id uuid.UUID
}

// Guard tracks which token is current.
type Guard struct {
	mu      sync.Mutex
	current uuid.UUID
}

func NewGuard() *Guard {
	return &Guard{}
}

// Issue mints a fresh token and makes it the current one, invalidating
// every previously issued token.
func (g *Guard) Issue() Token {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current = uuid.New()
	return Token{id: g.current}
}

// IsCurrent reports whether tok is still the active query's token.
func (g *Guard) IsCurrent(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return tok.id != uuid.Nil && tok.id == g.current
}
