package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.CorpusPath == "" {
		cfg.Storage.CorpusPath = "/usr/local/var/rdrag/data/month_document_contents_filtered.json"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/rdrag/data/tfidf_index.gob"
	}
	if cfg.Storage.FeedbackPath == "" {
		cfg.Storage.FeedbackPath = "/usr/local/var/rdrag/data/pipeline_feedback.json"
	}
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = "http://localhost:11434"
	}
	if cfg.Backend.Model == "" {
		cfg.Backend.Model = "qwen3:4b"
	}
	if cfg.Backend.NumCtx == 0 {
		cfg.Backend.NumCtx = 4096
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = 300
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}
