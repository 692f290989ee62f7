package models

// IngestResponse reports an ingestion run. The Indonesian field names are
// part of the public API contract (jumlah_vektor = stored vector count after
// the run, durasi_detik = wall time in seconds).
type IngestResponse struct {
	Message     string  `json:"message"`
	VectorCount uint64  `json:"jumlah_vektor"`
	Duration    float64 `json:"durasi_detik"`
}

// AskRAGResponse is the answer for a retrieval-augmented question, along with
// the context passed to the model and the per-passage similarity scores in
// descending order. Scores is empty when no relevant passage was found.
type AskRAGResponse struct {
	Response    string    `json:"response"`
	ContextUsed string    `json:"context_used"`
	Scores      []float64 `json:"similarity_score"`
	SessionID   string    `json:"session_id,omitempty"`
}

// AskResponse is the answer for a question answered without retrieval.
type AskResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
}
