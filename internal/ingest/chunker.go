// Package ingest turns extracted documents into embedded chunks and stores them.
package ingest

import (
	"github.com/google/uuid"

	"github.com/forriz/concierge/internal/models"
)

// Chunker splits text into overlapping windows measured in runes.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Size must be positive and overlap must be
// smaller than size; out-of-range values fall back to 1000/200.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 || overlap < 0 || overlap >= size {
		size, overlap = 1000, 200
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split cuts text into chunks of at most size runes where each chunk shares
// exactly overlap runes with its predecessor. When a newline falls inside the
// window past the overlap region, the window ends just after the last such
// newline so chunks break at line boundaries where possible. Each chunk gets
// a fresh random ID and carries the source tag.
func (c *Chunker) Split(text, source string) []models.Chunk {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= c.size {
		return []models.Chunk{{ID: uuid.NewString(), Text: text, Source: source}}
	}

	var chunks []models.Chunk
	start := 0
	for {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, models.Chunk{
				ID:     uuid.NewString(),
				Text:   string(runes[start:]),
				Source: source,
			})
			return chunks
		}
		// Snap back to the last newline, but never so far that the next
		// chunk would fail to advance.
		for i := end - 1; i > start+c.overlap; i-- {
			if runes[i] == '\n' {
				end = i + 1
				break
			}
		}
		chunks = append(chunks, models.Chunk{
			ID:     uuid.NewString(),
			Text:   string(runes[start:end]),
			Source: source,
		})
		start = end - c.overlap
	}
}
