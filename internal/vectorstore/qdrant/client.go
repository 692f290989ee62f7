// Package qdrant implements the vector store on a Qdrant server over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/forriz/concierge/internal/models"
	"github.com/forriz/concierge/internal/vectorstore"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// Collection is the name of the collection holding hotel chunks.
	Collection string

	// Dimensions is the embedding vector size the collection must use.
	Dimensions int

	// APIKey is an optional API key for authentication.
	APIKey string
}

// Client implements vectorstore.Store for Qdrant.
type Client struct {
	client     *qdrant.Client
	collection string
	dimensions uint64
}

// New creates a Qdrant-backed store.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant vector dimensions must be positive")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}
	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Client{
		client:     qdrantClient,
		collection: cfg.Collection,
		dimensions: uint64(cfg.Dimensions),
	}, nil
}

// EnsureCollection creates the collection with cosine distance when it does
// not exist, and verifies the stored vector size when it does.
func (c *Client) EnsureCollection(ctx context.Context) error {
	exists, err := c.client.CollectionExists(ctx, c.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		err := c.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: c.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     c.dimensions,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	info, err := c.client.GetCollectionInfo(ctx, c.collection)
	if err != nil {
		return fmt.Errorf("failed to inspect collection: %w", err)
	}
	if params := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); params != nil {
		if params.GetSize() != c.dimensions {
			return fmt.Errorf("%w: collection %q has size %d, want %d",
				vectorstore.ErrDimensionMismatch, c.collection, params.GetSize(), c.dimensions)
		}
	}
	return nil
}

// Upsert writes chunks and their vectors as points keyed by the chunk IDs.
func (c *Client) Upsert(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, ch := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(ch.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content": ch.Text,
				"source":  ch.Source,
			}),
		}
	}
	wait := true
	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Search returns the closest chunks to the query vector.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]models.ScoredChunk, error) {
	limitUint64 := uint64(limit)
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitUint64,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := make([]models.ScoredChunk, 0, len(points))
	for _, point := range points {
		sc := models.ScoredChunk{Score: float64(point.Score)}
		if point.Id != nil {
			sc.Chunk.ID = point.Id.GetUuid()
		}
		for k, v := range point.Payload {
			switch k {
			case "content":
				sc.Chunk.Text = v.GetStringValue()
			case "source":
				sc.Chunk.Source = v.GetStringValue()
			}
		}
		results = append(results, sc)
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (c *Client) Count(ctx context.Context) (uint64, error) {
	count, err := c.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: c.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}
	return count, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ vectorstore.Store = (*Client)(nil)
