package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "hotel-collection"
	}
	if cfg.Vector.Dimensions == 0 {
		cfg.Vector.Dimensions = 1024
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://router.huggingface.co/hf-inference"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "BAAI/bge-m3"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = cfg.Vector.Dimensions
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 30
	}
	if cfg.Chat.BaseURL == "" {
		cfg.Chat.BaseURL = "https://router.huggingface.co/v1"
	}
	if cfg.Chat.TimeoutSecs == 0 {
		cfg.Chat.TimeoutSecs = 60
	}
	if cfg.Chat.RAG.Model == "" {
		cfg.Chat.RAG.Model = "gpt-4o-mini"
	}
	if cfg.Chat.RAG.MaxTokens == 0 {
		cfg.Chat.RAG.MaxTokens = 500
	}
	if cfg.Chat.NoRAG.Model == "" {
		cfg.Chat.NoRAG.Model = "openai/gpt-oss-20b:nebius"
	}
	if cfg.Chat.NoRAG.MaxTokens == 0 {
		cfg.Chat.NoRAG.MaxTokens = 300
	}
	if cfg.Chat.NoRAG.Temperature == nil {
		t := 0.7
		cfg.Chat.NoRAG.Temperature = &t
	}
	if cfg.Booking.URL == "" {
		cfg.Booking.URL = "https://booking.forrizhotels.com/api/v2/offers/room"
	}
	if cfg.Booking.HotelID == "" {
		cfg.Booking.HotelID = "FHYH"
	}
	if cfg.Booking.TimeoutSecs == 0 {
		cfg.Booking.TimeoutSecs = 15
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 1000
	}
	if cfg.Ingest.ChunkOverlap == 0 {
		cfg.Ingest.ChunkOverlap = 200
	}
	if cfg.Ingest.TopK == 0 {
		cfg.Ingest.TopK = 3
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 24
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/concierge.db"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".txt", ".md", ".docx", ".xlsx"}
	}
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
