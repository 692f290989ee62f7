package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestEmbedder(t *testing.T, url string, dims int) *HFEmbedder {
	t.Helper()
	e, err := NewHFEmbedder(HFConfig{
		BaseURL:    url,
		APIKey:     "test-key",
		Model:      "test/model",
		Dimensions: dims,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func serveVectors(t *testing.T, dims int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: got %q", got)
		}
		var body struct {
			Inputs []string `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		vecs := make([][]float32, len(body.Inputs))
		for i := range vecs {
			vecs[i] = make([]float32, dims)
			vecs[i][0] = float32(i + 1)
		}
		_ = json.NewEncoder(w).Encode(vecs)
	}
}

func TestHFEmbedder_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(serveVectors(t, 8))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 8)
	vecs, err := e.EmbedBatch(context.Background(), []string{"satu", "dua"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("vectors: got %d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 {
		t.Errorf("vector order wrong: %v %v", vecs[0][0], vecs[1][0])
	}
}

func TestHFEmbedder_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		serveVectors(t, 4)(w, r)
	}))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4)
	vec, err := e.Embed(context.Background(), "halo")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 4 {
		t.Errorf("dimension: got %d", len(vec))
	}
	if calls.Load() != 2 {
		t.Errorf("calls: got %d, want 2", calls.Load())
	}
}

func TestHFEmbedder_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4)
	_, err := e.Embed(context.Background(), "halo")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1", calls.Load())
	}
}

func TestHFEmbedder_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(serveVectors(t, 3))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4)
	_, err := e.Embed(context.Background(), "halo")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestHFEmbedder_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"loading"}`))
	}))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4)
	_, err := e.Embed(context.Background(), "halo")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestHFEmbedder_RequiresKey(t *testing.T) {
	_, err := NewHFEmbedder(HFConfig{Model: "m"})
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("expected key error, got %v", err)
	}
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder(16)
	a, _ := m.Embed(context.Background(), "sarapan")
	b, _ := m.Embed(context.Background(), "sarapan")
	c, _ := m.Embed(context.Background(), "kolam renang")
	if len(a) != 16 {
		t.Fatalf("dimension: got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same text produced different vectors at %d", i)
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical vectors")
	}
}
