package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/father-fjv/ChanceRAG/internal/chunker"
	"github.com/father-fjv/ChanceRAG/internal/config"
	"github.com/father-fjv/ChanceRAG/internal/domain"
	"github.com/father-fjv/ChanceRAG/internal/embedding"
	"github.com/father-fjv/ChanceRAG/internal/embedding/hashing"
	"github.com/father-fjv/ChanceRAG/internal/embedding/openai"
	"github.com/father-fjv/ChanceRAG/internal/service"
	"github.com/father-fjv/ChanceRAG/internal/summarizer"
	"github.com/father-fjv/ChanceRAG/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/chancerag/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Assemble components; the retriever is constructed once here and
	// handed to the UI, never reached through global state.
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "hashing", "":
		dim := 768
		if cfg.Embedder.Hashing != nil {
			dim = cfg.Embedder.Hashing.Dimension
		}
		emb, err = hashing.New(dim)
		if err != nil {
			log.Fatalf("hashing embedder init failed: %v", err)
		}
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		emb, err = openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Dimension: cfg.Embedder.OpenAI.Dimension,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	svc, err := service.New(emb, cfg.Store.Dir, logger)
	if err != nil {
		log.Fatalf("retriever init failed: %v", err)
	}

	var summary string
	if len(inputs) > 0 {
		summary, err = ingest(svc, cfg, inputs)
		if err != nil {
			log.Fatalf("ingest failed: %v", err)
		}
	} else {
		if err := svc.Load(); err != nil {
			fmt.Println("No persisted store found. Usage: chancerag [--config=config.yaml] file1.txt [file2.txt ...]")
			log.Fatalf("load failed: %v", err)
		}
		stats := svc.Stats()
		summary = fmt.Sprintf("Restored %d fragments from %s.", stats.TotalDocuments, cfg.Store.Dir)
	}

	m := tui.New(svc, summary, cfg.Retrieval.TopK, cfg.Retrieval.ScoreThreshold)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

// ingest reads plain-text files, segments them into fragments, indexes the
// whole batch and persists the store. Re-running ingest rebuilds the store
// from scratch.
func ingest(svc *service.Retriever, cfg *config.AppConfig, inputs []string) (string, error) {
	ch := chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)

	var fragments []domain.Fragment
	var corpus strings.Builder
	for _, p := range inputs {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return "", err
			}
			frags, err := ch.Chunk(m, 0, string(data))
			if err != nil {
				return "", err
			}
			fragments = append(fragments, frags...)
			corpus.WriteString("\n")
			corpus.Write(data)
		}
	}
	if len(fragments) == 0 {
		return "", fmt.Errorf("no .txt documents found")
	}
	if err := svc.InsertFragments(context.Background(), fragments); err != nil {
		return "", err
	}
	if err := svc.Save(); err != nil {
		return "", err
	}
	sum := summarizer.NewFrequencySummarizer()
	return sum.Summarize(corpus.String(), cfg.Summarizer.MaxSentences)
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
