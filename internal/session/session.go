// Package session stores chat conversation state between requests.
package session

import (
	"context"
	"errors"
	"time"
)

// Common errors for session store operations.
var (
	ErrNotFound        = errors.New("session not found")
	ErrVersionConflict = errors.New("session version conflict")
)

// Message is a single conversation turn.
type Message struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	TokenCount int       `json:"token_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// Data is the serializable state of one conversation.
type Data struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version increases on every update and backs optimistic locking.
	Version int64 `json:"version"`

	History []Message `json:"history"`
}

// Clone returns a deep copy of the session, so callers can mutate History
// without aliasing store state.
func (d *Data) Clone() *Data {
	cp := *d
	cp.History = append([]Message(nil), d.History...)
	return &cp
}

// Store persists conversation sessions.
type Store interface {
	// Create stores a new session with Version set to 1.
	Create(ctx context.Context, data *Data) error

	// Get retrieves a session by ID. A missing session yields nil, not an
	// error.
	Get(ctx context.Context, id string) (*Data, error)

	// Update persists a session, verifying the Version matches the stored
	// one and incrementing it. Returns ErrVersionConflict on mismatch and
	// ErrNotFound for unknown sessions.
	Update(ctx context.Context, data *Data) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}
