// Package main is the concierge CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/forriz/concierge/internal/answer"
	"github.com/forriz/concierge/internal/booking"
	"github.com/forriz/concierge/internal/config"
	"github.com/forriz/concierge/internal/embedding"
	"github.com/forriz/concierge/internal/extract"
	"github.com/forriz/concierge/internal/ingest"
	"github.com/forriz/concierge/internal/retriever"
	"github.com/forriz/concierge/internal/rooms"
	"github.com/forriz/concierge/internal/server"
	"github.com/forriz/concierge/internal/session"
	"github.com/forriz/concierge/internal/storage"
	"github.com/forriz/concierge/internal/vectorstore"
	qdrantstore "github.com/forriz/concierge/internal/vectorstore/qdrant"
	"github.com/forriz/concierge/internal/watcher"
	"github.com/forriz/concierge/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/concierge/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence so that running from the project
// directory uses the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "booking":
		runBooking()
	case "ask":
		runAsk()
	case "rooms":
		runRooms()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("concierge version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds all initialized collaborators of the backend.
type Components struct {
	Embedder  embedding.Embedder
	Vectors   vectorstore.Store
	Pipeline  *ingest.Pipeline
	Retriever *retriever.Retriever
	Generator answer.Generator
	Booking   *booking.Client
	Sessions  session.Store
	AuditLog  *storage.IngestLog
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Vectors != nil {
		_ = c.Vectors.Close()
	}
	if c.Sessions != nil {
		_ = c.Sessions.Close()
	}
	if c.AuditLog != nil {
		_ = c.AuditLog.Close()
	}
}

func initializeComponents(cfg *config.Config, secrets config.Secrets, logger *zap.Logger) (*Components, error) {
	auditLog, err := storage.NewIngestLog(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ingest log: %w", err)
	}

	embedder, err := embedding.NewHFEmbedder(embedding.HFConfig{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     secrets.HFToken,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	var vectors vectorstore.Store
	if cfg.Vector.URL != "" {
		vectors, err = qdrantstore.New(qdrantstore.Config{
			URL:        cfg.Vector.URL,
			Collection: cfg.Vector.Collection,
			Dimensions: cfg.Vector.Dimensions,
			APIKey:     secrets.QdrantAPIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vector store: %w", err)
		}
	} else {
		logger.Warn("no vector store URL configured, vectors are kept in memory")
		vectors = vectorstore.NewMemoryStore(cfg.Vector.Dimensions)
	}

	generator, err := answer.NewChatGenerator(cfg.Chat.BaseURL, secrets.HFToken, cfg.Chat.RAG, cfg.Chat.NoRAG)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat generator: %w", err)
	}

	var sessions session.Store
	switch cfg.Session.Store {
	case "memory":
		sessions = session.NewMemoryStore()
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		sessions = session.NewRedisStore(client, time.Duration(cfg.Session.TTLHours)*time.Hour)
	case "", "none":
		// Sessions disabled; clients carry history inline.
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	pipeline := ingest.NewPipeline(
		extract.NewExtractor(),
		ingest.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		embedder,
		vectors,
		auditLog,
		logger,
	)

	return &Components{
		Embedder:  embedder,
		Vectors:   vectors,
		Pipeline:  pipeline,
		Retriever: retriever.New(embedder, vectors, cfg.Ingest.TopK),
		Generator: generator,
		Booking: booking.NewClient(booking.Config{
			URL:     cfg.Booking.URL,
			Token:   secrets.BookingToken,
			Timeout: time.Duration(cfg.Booking.TimeoutSecs) * time.Second,
		}),
		Sessions: sessions,
		AuditLog: auditLog,
	}, nil
}

func setup(configPath string) (*config.Config, *Components, *zap.Logger) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load credentials: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded", zap.String("config_path", resolvedPath), zap.Bool("debug", cfg.Debug))

	components, err := initializeComponents(cfg, secrets, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, components, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, components, logger := setup(*configPath)
	defer logger.Sync()
	defer components.Close()

	srv := server.NewServer(
		cfg,
		components.Pipeline,
		components.Booking,
		components.Retriever,
		components.Generator,
		components.Sessions,
		components.Vectors,
		components.AuditLog,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.Watch.Directories) > 0 {
		pipeline := components.Pipeline
		w := watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if _, err := pipeline.IngestFile(context.Background(), path); err != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			logger,
		)
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: concierge ingest [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	_, components, logger := setup(*configPath)
	defer logger.Sync()
	defer components.Close()

	result, err := components.Pipeline.IngestFile(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %s: %d chunks, %d vectors stored (%.2fs)\n",
		path, result.Chunks, result.VectorCount, result.Duration)
}

func runBooking() {
	fs := flag.NewFlagSet("booking", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	hotelID := fs.String("hotel", "", "hotel ID (default from config)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 2 {
		fmt.Println("Usage: concierge booking [flags] <checkin> <checkout>  (dates as YYYY-MM-DD)")
		os.Exit(1)
	}
	checkin, checkout := fs.Arg(0), fs.Arg(1)

	cfg, components, logger := setup(*configPath)
	defer logger.Sync()
	defer components.Close()

	id := *hotelID
	if id == "" {
		id = cfg.Booking.HotelID
	}

	ctx := context.Background()
	availability, err := components.Booking.FetchAvailability(ctx, checkin, checkout, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Booking fetch failed: %v\n", err)
		os.Exit(1)
	}
	text, err := booking.FormatText(availability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Formatting failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(text)

	result, err := components.Pipeline.IngestText(ctx, text, booking.SourceTag, "booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nStored %d chunks, %d vectors total (%.2fs)\n",
		result.Chunks, result.VectorCount, result.Duration)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	noRAG := fs.Bool("no-rag", false, "answer from model knowledge without retrieval")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: concierge ask [flags] <question>")
		os.Exit(1)
	}
	question := fs.Arg(0)

	_, components, logger := setup(*configPath)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	if *noRAG {
		reply, err := components.Generator.AnswerDirect(ctx, question, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Answer failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(reply)
		return
	}

	result, err := components.Retriever.Retrieve(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Retrieval failed: %v\n", err)
		os.Exit(1)
	}
	reply, err := components.Generator.AnswerRAG(ctx, question, result.Context, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Answer failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(reply)
	if result.Found {
		fmt.Printf("\n(scores: %v)\n", result.Scores)
	}
}

func runRooms() {
	fs := flag.NewFlagSet("rooms", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Rooms.SpreadsheetPath == "" {
		fmt.Fprintln(os.Stderr, "No room spreadsheet configured (rooms.spreadsheet_path)")
		os.Exit(1)
	}
	catalog, err := rooms.LoadFile(cfg.Rooms.SpreadsheetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load rooms: %v\n", err)
		os.Exit(1)
	}
	for _, r := range catalog {
		fmt.Printf("%s\t%s\t%s\t%s\n", r.Type, r.BedType, r.Capacity, r.Price)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Status failed: %s\n", string(body))
		os.Exit(1)
	}
	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Println(string(body))
	}
}

func printUsage() {
	fmt.Println(`concierge - hotel chatbot backend

Usage:
  concierge server [flags]                   Start the HTTP server
  concierge ingest [flags] <file>            Ingest a document into the knowledge base
  concierge booking [flags] <in> <out>       Fetch and ingest room availability (dates YYYY-MM-DD)
  concierge ask [flags] <question>           Ask the chatbot from the command line
  concierge rooms [flags]                    Print the room catalog spreadsheet
  concierge status [flags]                   Show server status
  concierge version                          Show version
  concierge help                             Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/concierge/config.yaml)

Ask Flags:
  --no-rag           Answer from model knowledge without retrieval

Status Flags:
  --server string    Server URL (default: http://localhost:8000)

Credentials are read from the environment (or a .env file):
  HF_TOKEN           HuggingFace API token (required)
  QDRANT_API_KEY     Qdrant API key (when the vector store needs one)
  BOOKING_API_TOKEN  Bearer token for the booking availability API

Examples:
  concierge server
  concierge ingest panduan-hotel.pdf
  concierge booking 2025-09-26 2025-09-27
  concierge ask "jam berapa sarapan?"
  concierge ask --no-rag "dimana lokasi hotel?"`)
}
