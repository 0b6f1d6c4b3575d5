// Command busrag answers questions about bus providers and routes from a
// local data directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/busrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/busrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/busrag/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/busrag/internal/adapters/driven/storage/indexfile"
	"github.com/custodia-labs/busrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/busrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the core services.
func bootstrap(_ context.Context, configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var warnings []string
	aiResult, err := ai.Init(settings)
	if err != nil {
		warnings = append(warnings, err.Error())
		aiResult = &ai.InitResult{}
	}
	warnings = append(warnings, aiResult.Warnings...)

	dataDir := settings.Paths.DataDir
	if dataDir == "" {
		dataDir = domain.DefaultDataDir
	}
	indexDir := settings.Paths.IndexDir
	if indexDir == "" {
		indexDir = filepath.Join(configDir, "index")
	}

	corpus := filesystem.NewSource(dataDir)

	indexStore, err := indexfile.NewStore(indexDir, settings.VectorIndex.Precision)
	if err != nil {
		aiResult.Close()
		return nil, fmt.Errorf("open index store: %w", err)
	}

	bookingStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		aiResult.Close()
		return nil, fmt.Errorf("open booking store: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, file.PromptsDirName))
	if err != nil {
		aiResult.Close()
		_ = bookingStore.Close()
		return nil, fmt.Errorf("open prompt store: %w", err)
	}

	indexService := services.NewIndexService(corpus, aiResult.EmbeddingService, indexStore)
	retrievalService := services.NewRetrievalService(indexService, aiResult.EmbeddingService)
	answerService := services.NewAnswerService(retrievalService, aiResult.LLMService, settings.LLM.MaxTokens)
	answerService.SetPromptStore(prompts)

	return &cli.Services{
		Index:      indexService,
		Retrieval:  retrievalService,
		Answer:     answerService,
		Provider:   services.NewProviderService(retrievalService, corpus),
		Booking:    services.NewBookingService(bookingStore, corpus),
		Settings:   settingsService,
		WatchPaths: corpus.Paths(),
		Warnings:   warnings,
		Close: func() error {
			aiResult.Close()
			return bookingStore.Close()
		},
	}, nil
}
