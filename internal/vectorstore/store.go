// Package vectorstore abstracts the vector database holding embedded chunks.
package vectorstore

import (
	"context"
	"errors"

	"github.com/forriz/concierge/internal/models"
)

// ErrDimensionMismatch is returned when an existing collection was created
// with a different vector size than the one configured.
var ErrDimensionMismatch = errors.New("collection dimension mismatch")

// Store persists embedded chunks and serves similarity search.
type Store interface {
	// EnsureCollection creates the collection if missing and verifies its
	// dimension otherwise. A mismatch is a hard failure.
	EnsureCollection(ctx context.Context) error

	// Upsert writes chunks with their vectors. len(chunks) must equal
	// len(vectors).
	Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error

	// Search returns up to limit chunks most similar to the query vector,
	// ordered by descending score.
	Search(ctx context.Context, vector []float32, limit int) ([]models.ScoredChunk, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (uint64, error)

	Close() error
}
