// Package retriever embeds a question and fetches the most similar chunks.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/forriz/concierge/internal/embedding"
	"github.com/forriz/concierge/internal/vectorstore"
)

// NoContextMessage is returned as the context when the collection holds no
// relevant chunks for a question.
const NoContextMessage = "Tidak ada dokumen relevan ditemukan."

// Result is the retrieval outcome for one question.
type Result struct {
	// Context is the joined chunk texts, or NoContextMessage when nothing
	// was found.
	Context string

	// Scores holds the similarity score of each retrieved chunk, in the
	// order they appear in Context. Empty when nothing was found.
	Scores []float64

	// Sources lists the source tag of each retrieved chunk.
	Sources []string

	// Found reports whether any chunk was retrieved.
	Found bool
}

// Retriever performs similarity search over the hotel knowledge base.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorstore.Store
	topK     int
}

// New creates a retriever returning up to topK chunks per question.
func New(embedder embedding.Embedder, store vectorstore.Store, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve embeds the question and searches the store. The question is
// lowercased before embedding. An empty collection is not an error; it
// yields a result with Found set to false. Embedding or store failures
// propagate as errors and are never silently mapped to an empty result.
func (r *Retriever) Retrieve(ctx context.Context, question string) (*Result, error) {
	vector, err := r.embedder.Embed(ctx, strings.ToLower(question))
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	hits, err := r.store.Search(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	if len(hits) == 0 {
		return &Result{Context: NoContextMessage}, nil
	}

	texts := make([]string, len(hits))
	scores := make([]float64, len(hits))
	sources := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Chunk.Text
		scores[i] = h.Score
		sources[i] = h.Chunk.Source
	}
	return &Result{
		Context: strings.Join(texts, "\n\n"),
		Scores:  scores,
		Sources: sources,
		Found:   true,
	}, nil
}
