// Package main is the rdrag CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pattarin/rdrag/internal/backend"
	"github.com/pattarin/rdrag/internal/config"
	"github.com/pattarin/rdrag/internal/feedback"
	"github.com/pattarin/rdrag/internal/index"
	"github.com/pattarin/rdrag/internal/pipeline"
	"github.com/pattarin/rdrag/internal/prompt"
	"github.com/pattarin/rdrag/internal/retrieval"
	"github.com/pattarin/rdrag/internal/server"
	"github.com/pattarin/rdrag/internal/watcher"
	"github.com/pattarin/rdrag/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/rdrag/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
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
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("rdrag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// components bundles everything a question needs to be answered.
type components struct {
	pipeline *pipeline.Pipeline
	feedback *feedback.Store
	indexes  *index.Store
}

func buildComponents(cfg *config.Config, logger *zap.Logger) *components {
	store := feedback.NewStore(cfg.Storage.FeedbackPath, logger)
	indexes := index.NewStore(cfg.Storage.IndexPath, logger)
	retriever := retrieval.NewRetriever(indexes, cfg.Retrieval.TopK, cfg.Retrieval.MinScoreOrDefault(), logger)
	client := backend.NewClient(backend.Config{
		BaseURL:     cfg.Backend.URL,
		Model:       cfg.Backend.Model,
		Temperature: cfg.Backend.Temperature,
		NumCtx:      cfg.Backend.NumCtx,
		Timeout:     time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	})
	p := pipeline.New(cfg.Storage.CorpusPath, retriever, prompt.NewBuilder(), client, store, logger)
	return &components{pipeline: p, feedback: store, indexes: indexes}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps := buildComponents(cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	corpusWatch := watcher.New(cfg.Storage.CorpusPath, comps.pipeline.Invalidate, logger)
	if err := corpusWatch.Start(watchCtx); err != nil {
		// A missing corpus directory is normal before the first scrape;
		// the server still answers with the no-data message.
		logger.Warn("corpus watch unavailable", zap.String("path", cfg.Storage.CorpusPath), zap.Error(err))
	}

	srv := server.NewServer(comps.pipeline, comps.feedback, comps.indexes, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: rdrag ask [flags] <question>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps := buildComponents(cfg, logger)
	answer, refs, err := comps.pipeline.Answer(context.Background(), question)
	if err != nil {
		fmt.Printf("Failed to answer: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(answer)
	if len(refs) > 0 {
		fmt.Println("\nเอกสารอ้างอิง:")
		for _, ref := range refs {
			fmt.Printf("- %s\n", ref)
		}
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := zap.NewNop()
	comps := buildComponents(cfg, logger)

	stats, err := comps.pipeline.Stats(comps.indexes.CachedRows())
	if err != nil {
		fmt.Printf("Failed to read corpus: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config:     %s\n", resolvedConfigPath)
	fmt.Printf("Corpus:     %s (%d documents)\n", cfg.Storage.CorpusPath, stats.Documents)
	fmt.Printf("Index:      %s (%d rows)\n", cfg.Storage.IndexPath, stats.IndexRows)
	fmt.Printf("Feedback:   %s (%d entries)\n", cfg.Storage.FeedbackPath, len(comps.feedback.Entries()))
	fmt.Printf("Backend:    %s (model %s)\n", cfg.Backend.URL, cfg.Backend.Model)
	if diskBytes, err := utils.FileSizeBytes(cfg.Storage.CorpusPath, cfg.Storage.IndexPath, cfg.Storage.FeedbackPath); err == nil {
		fmt.Printf("Disk usage: %d bytes\n", diskBytes)
	}
	if stats.IndexRows != 0 && stats.IndexRows != stats.Documents {
		fmt.Println("Note: persisted index row count differs from corpus size; it will be rebuilt on the next question.")
	}
}

func printUsage() {
	fmt.Println(`rdrag - retrieval-augmented answering over Revenue Department rulings

Usage:
  rdrag server [-config path] [-debug]   Start the HTTP API server
  rdrag ask [-config path] <question>    Answer one question and exit
  rdrag status [-config path]            Show corpus, index, and log state
  rdrag version                          Print version
  rdrag help                             Show this help

The question for 'ask' is all remaining arguments joined by spaces, so
multi-word questions work with or without quotes.`)
}
