package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/forriz/concierge/internal/models"
)

type memoryPoint struct {
	chunk  models.Chunk
	vector []float32
}

// MemoryStore is an in-process Store backed by a slice. It exists for tests
// and for running without a vector database.
type MemoryStore struct {
	mu         sync.RWMutex
	dimensions int
	points     map[string]memoryPoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(dimensions int) *MemoryStore {
	return &MemoryStore{
		dimensions: dimensions,
		points:     make(map[string]memoryPoint),
	}
}

func (s *MemoryStore) EnsureCollection(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		if len(vectors[i]) != s.dimensions {
			return fmt.Errorf("%w: vector has dimension %d, want %d", ErrDimensionMismatch, len(vectors[i]), s.dimensions)
		}
		s.points[c.ID] = memoryPoint{chunk: c, vector: vectors[i]}
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, vector []float32, limit int) ([]models.ScoredChunk, error) {
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d", ErrDimensionMismatch, len(vector), s.dimensions)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.ScoredChunk, 0, len(s.points))
	for _, p := range s.points {
		results = append(results, models.ScoredChunk{
			Chunk: p.chunk,
			Score: cosineSimilarity(vector, p.vector),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.points)), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var _ Store = (*MemoryStore)(nil)
