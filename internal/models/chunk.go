// Package models defines core data structures for chunks, requests, and responses.
package models

// Chunk is a bounded segment of an ingested document, stored alongside its
// embedding in the vector store. Chunks are immutable once written.
type Chunk struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// ScoredChunk is a chunk returned from similarity search with its score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
