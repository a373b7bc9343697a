package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/tourquote/internal/config"
	"github.com/Veraticus/tourquote/internal/extract"
	"github.com/Veraticus/tourquote/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// createExtractor builds the named extractor. The returned func releases its
// resources.
func createExtractor(name string) (extract.Extractor, func(), error) {
	switch strings.ToLower(name) {
	case "keyword", "keywords", "offline":
		return extract.NewKeywordExtractor(), func() {}, nil
	case "llm", "":
		cfg, err := config.LoadExtractorConfig()
		if err != nil {
			return nil, nil, err
		}
		extractor, err := extract.NewLLMExtractor(cfg, slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM extractor: %w", err)
		}
		return extractor, extractor.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown extractor %q (valid options: llm, keyword)", name)
}
