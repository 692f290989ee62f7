package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forriz/concierge/internal/embedding"
	"github.com/forriz/concierge/internal/ingest"
	"github.com/forriz/concierge/internal/models"
	"github.com/forriz/concierge/internal/vectorstore"
)

func seedStore(t *testing.T, emb embedding.Embedder, store vectorstore.Store, texts ...string) {
	t.Helper()
	ctx := context.Background()
	chunker := ingest.NewChunker(1000, 200)
	for _, text := range texts {
		chunks := chunker.Split(text, "seed.txt")
		vecs, err := emb.EmbedBatch(ctx, []string{chunks[0].Text})
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Upsert(ctx, chunks, vecs); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRetrieve_ReturnsRankedChunks(t *testing.T) {
	emb := embedding.NewMockEmbedder(32)
	store := vectorstore.NewMemoryStore(32)
	seedStore(t, emb, store,
		"sarapan tersedia mulai pukul 06.00 pagi",
		"kolam renang ada di lantai 3",
		"parkir mobil gratis untuk tamu",
	)

	r := New(emb, store, 2)
	res, err := r.Retrieve(context.Background(), "sarapan tersedia mulai pukul 06.00 pagi")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected a hit")
	}
	if len(res.Scores) != 2 {
		t.Fatalf("scores: got %d, want 2", len(res.Scores))
	}
	if res.Scores[0] < res.Scores[1] {
		t.Error("scores not descending")
	}
	if !strings.Contains(res.Context, "sarapan") {
		t.Errorf("best chunk missing from context: %q", res.Context)
	}
	if !strings.Contains(res.Context, "\n\n") {
		t.Error("chunks not joined with blank line")
	}
}

func TestRetrieve_LowercasesQuestion(t *testing.T) {
	emb := embedding.NewMockEmbedder(32)
	store := vectorstore.NewMemoryStore(32)
	seedStore(t, emb, store, "jam check-in hotel")

	r := New(emb, store, 1)
	lower, err := r.Retrieve(context.Background(), "jam check-in hotel")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := r.Retrieve(context.Background(), "JAM CHECK-IN HOTEL")
	if err != nil {
		t.Fatal(err)
	}
	if lower.Scores[0] != upper.Scores[0] {
		t.Errorf("case changed the result: %f vs %f", lower.Scores[0], upper.Scores[0])
	}
}

func TestRetrieve_EmptyCollection(t *testing.T) {
	r := New(embedding.NewMockEmbedder(32), vectorstore.NewMemoryStore(32), 3)
	res, err := r.Retrieve(context.Background(), "ada kolam renang?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Error("Found should be false for an empty collection")
	}
	if res.Context != NoContextMessage {
		t.Errorf("context: got %q", res.Context)
	}
	if len(res.Scores) != 0 {
		t.Errorf("scores should be empty, got %v", res.Scores)
	}
}

type failingEmbedder struct{ embedding.Embedder }

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("quota exceeded")
}

func TestRetrieve_EmbedFailurePropagates(t *testing.T) {
	r := New(failingEmbedder{}, vectorstore.NewMemoryStore(32), 3)
	if _, err := r.Retrieve(context.Background(), "halo"); err == nil {
		t.Fatal("expected embedding failure to propagate")
	}
}

type failingStore struct{ vectorstore.Store }

func (failingStore) Search(context.Context, []float32, int) ([]models.ScoredChunk, error) {
	return nil, errors.New("connection refused")
}

func TestRetrieve_SearchFailurePropagates(t *testing.T) {
	r := New(embedding.NewMockEmbedder(32), failingStore{}, 3)
	if _, err := r.Retrieve(context.Background(), "halo"); err == nil {
		t.Fatal("expected search failure to propagate")
	}
}
