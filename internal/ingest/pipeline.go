package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/forriz/concierge/internal/embedding"
	"github.com/forriz/concierge/internal/extract"
	"github.com/forriz/concierge/internal/storage"
	"github.com/forriz/concierge/internal/vectorstore"
)

// Result summarizes one ingestion run.
type Result struct {
	// Chunks is the number of chunks produced from this document.
	Chunks int

	// VectorCount is the total number of vectors stored in the collection
	// after this run.
	VectorCount uint64

	// Duration is the wall-clock time of the run in seconds.
	Duration float64
}

// Pipeline runs the full ingestion flow: extract, chunk, embed, upsert.
type Pipeline struct {
	extractor *extract.Extractor
	chunker   *Chunker
	embedder  embedding.Embedder
	store     vectorstore.Store
	auditLog  *storage.IngestLog
	logger    *zap.Logger
}

// NewPipeline wires an ingestion pipeline. auditLog may be nil to disable
// run recording.
func NewPipeline(extractor *extract.Extractor, chunker *Chunker, embedder embedding.Embedder, store vectorstore.Store, auditLog *storage.IngestLog, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		auditLog:  auditLog,
		logger:    logger,
	}
}

// IngestFile ingests a document from disk.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Result, error) {
	doc, err := p.extractor.Extract(path)
	if err != nil {
		return nil, err
	}
	return p.IngestDocument(ctx, doc, "file")
}

// IngestBytes ingests in-memory content, typically a file upload. ext selects
// the extraction format and source tags the resulting chunks.
func (p *Pipeline) IngestBytes(ctx context.Context, content []byte, ext, source string) (*Result, error) {
	doc, err := p.extractor.ExtractBytes(content, ext, source)
	if err != nil {
		return nil, err
	}
	return p.IngestDocument(ctx, doc, "upload")
}

// IngestText ingests already-extracted text, such as the formatted booking
// availability blob.
func (p *Pipeline) IngestText(ctx context.Context, text, source, kind string) (*Result, error) {
	return p.IngestDocument(ctx, extract.Document{Text: text, Source: source}, kind)
}

// IngestDocument chunks and embeds a document, then upserts the chunks into
// the vector store. The returned count reflects the whole collection.
func (p *Pipeline) IngestDocument(ctx context.Context, doc extract.Document, kind string) (*Result, error) {
	start := time.Now()

	chunks := p.chunker.Split(doc.Text, doc.Source)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %q produced no chunks", doc.Source)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %q: %w", doc.Source, err)
	}

	if err := p.store.EnsureCollection(ctx); err != nil {
		return nil, err
	}
	if err := p.store.Upsert(ctx, chunks, vectors); err != nil {
		return nil, err
	}

	count, err := p.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Chunks:      len(chunks),
		VectorCount: count,
		Duration:    time.Since(start).Seconds(),
	}

	if p.auditLog != nil {
		rec := &storage.IngestRecord{
			Source:     doc.Source,
			Kind:       kind,
			ChunkCount: result.Chunks,
			Duration:   result.Duration,
		}
		if err := p.auditLog.Record(ctx, rec); err != nil {
			p.logger.Warn("failed to record ingestion run", zap.String("source", doc.Source), zap.Error(err))
		}
	}

	p.logger.Info("document ingested",
		zap.String("source", doc.Source),
		zap.String("kind", kind),
		zap.Int("chunks", result.Chunks),
		zap.Uint64("total_vectors", result.VectorCount),
		zap.Float64("duration_seconds", result.Duration),
	)
	return result, nil
}
