package locker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Default credentials accepted by DefaultVerifier.
const (
	DefaultAgentID    = "hitman"
	DefaultAccessCode = "18074478"
)

const authenticatedValue = "true"

// Verifier decides whether a credential pair opens the gate.
type Verifier interface {
	Verify(id, code string) bool
}

// StaticVerifier accepts exactly one id/code pair, compared case-sensitively.
type StaticVerifier struct {
	ID   string
	Code string
}

func (v StaticVerifier) Verify(id, code string) bool {
	return id == v.ID && code == v.Code
}

// BcryptVerifier accepts one id whose code matches a bcrypt hash.
type BcryptVerifier struct {
	ID   string
	Hash string
}

func (v BcryptVerifier) Verify(id, code string) bool {
	if id != v.ID {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.Hash), []byte(code)) == nil
}

// DefaultVerifier returns the built-in hitman/18074478 pair.
func DefaultVerifier() Verifier {
	return StaticVerifier{ID: DefaultAgentID, Code: DefaultAccessCode}
}

// Gate tracks whether the session has logged in. The state is a single
// persisted flag; it is not a security boundary.
type Gate struct {
	storage  Storage
	key      string
	verifier Verifier
	delay    time.Duration
	logger   *slog.Logger
}

// IsAuthenticated reports whether the flag holds exactly "true".
// Storage errors count as not authenticated.
func (g *Gate) IsAuthenticated() bool {
	v, ok, err := g.storage.Get(g.key)
	if err != nil {
		g.logger.Warn("Reading session flag failed", "key", g.key, "err", err)
		return false
	}
	return ok && v == authenticatedValue
}

// AttemptLogin checks the pair and sets the flag on success. A mismatch is
// (false, nil), never an error.
func (g *Gate) AttemptLogin(id, code string) (bool, error) {
	return g.AttemptLoginContext(context.Background(), id, code)
}

// AttemptLoginContext is AttemptLogin with a cancellable login delay.
func (g *Gate) AttemptLoginContext(ctx context.Context, id, code string) (bool, error) {
	if g.delay > 0 {
		t := time.NewTimer(g.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return false, ctx.Err()
		case <-t.C:
		}
	}

	if !g.verifier.Verify(id, code) {
		g.logger.Info("Access denied", "id", id)
		return false, nil
	}
	if err := g.storage.Set(g.key, authenticatedValue); err != nil {
		return false, fmt.Errorf("persist session flag: %w", err)
	}
	g.logger.Info("Access granted", "id", id)
	return true, nil
}

// Logout clears the flag.
func (g *Gate) Logout() error {
	if err := g.storage.Remove(g.key); err != nil {
		return fmt.Errorf("clear session flag: %w", err)
	}
	return nil
}
