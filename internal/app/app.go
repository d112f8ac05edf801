// Package app wires configuration into the pipeline services shared by the
// HTTP server and the command-line client.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studyplan/internal/config"
	"github.com/kailas-cloud/studyplan/internal/db"
	dbRedis "github.com/kailas-cloud/studyplan/internal/db/redis"
	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
	domrent "github.com/kailas-cloud/studyplan/internal/domain/rent"
	"github.com/kailas-cloud/studyplan/internal/metrics"
	"github.com/kailas-cloud/studyplan/internal/repository/chunktable"
	"github.com/kailas-cloud/studyplan/internal/repository/embcache"
	"github.com/kailas-cloud/studyplan/internal/repository/rentmodel"
	"github.com/kailas-cloud/studyplan/internal/repository/vectorindex"
	openaiTransport "github.com/kailas-cloud/studyplan/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/studyplan/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/studyplan/internal/usecase/health"
	planuc "github.com/kailas-cloud/studyplan/internal/usecase/plan"
	rentuc "github.com/kailas-cloud/studyplan/internal/usecase/rent"
	searchuc "github.com/kailas-cloud/studyplan/internal/usecase/search"
)

// App holds the long-lived services. Everything is read-only after Build.
type App struct {
	Slides *corpus.Corpus
	Labs   *corpus.Corpus
	Search *searchuc.Service
	Plan   *planuc.Service
	Rent   *rentuc.Service
	Health *healthuc.Service

	store db.Store
}

// Build loads both corpora and assembles the embedding and chat chains.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	metrics.RegisterPipelineMetrics()

	a := &App{}

	slides, err := loadCorpus(ctx, chunk.Slide, cfg.Corpus.Slides, cfg.Corpus.EncryptionKey)
	if err != nil {
		return nil, err
	}
	labs, err := loadCorpus(ctx, chunk.Lab, cfg.Corpus.Labs, cfg.Corpus.EncryptionKey)
	if err != nil {
		return nil, err
	}
	a.Slides, a.Labs = slides, labs
	logger.Info("Corpora loaded",
		zap.Int("slides", slides.Len()),
		zap.Int("labs", labs.Len()),
	)

	if cfg.Cache.Enabled() {
		a.store = connectCache(ctx, cfg.Cache, logger)
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.Provider.APIKey,
		BaseURL:    cfg.Embedding.Provider.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	encoder := embeddinguc.NewEncoder(buildEmbedder(base, cfg, a.store, logger), cfg.Embedding.Dimensions)

	chat := openaiTransport.NewChat(&openaiTransport.Config{
		APIKey:  cfg.Chat.Provider.APIKey,
		BaseURL: cfg.Chat.Provider.BaseURL,
		Logger:  logger,
	})

	a.Search = searchuc.New(encoder)
	a.Plan = planuc.New(a.Search, chat, slides, labs, cfg.Chat.Model, logger).
		WithTopK(cfg.Plan.TopKSlides, cfg.Plan.TopKLabs)

	var model *domrent.Model
	if cfg.Rent.ModelPath != "" {
		m, err := rentmodel.Load(cfg.Rent.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("load rent model: %w", err)
		}
		model = &m
	} else {
		logger.Info("Rent model not configured, estimates disabled")
	}
	a.Rent = rentuc.New(model, logger)

	// Pass a nil interface, not a typed nil pointer, when the cache is off.
	var cachePinger healthuc.CachePinger
	if a.store != nil {
		cachePinger = a.store
	}
	a.Health = healthuc.New(cachePinger, base)

	return a, nil
}

// Corpora returns both corpora.
func (a *App) Corpora() []*corpus.Corpus {
	return []*corpus.Corpus{a.Slides, a.Labs}
}

// Close releases the cache connection, if any.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func loadCorpus(
	ctx context.Context, source chunk.Source, sc config.SourceConfig, key string,
) (*corpus.Corpus, error) {
	idx, err := vectorindex.Load(ctx, sc.IndexPath, vectorindex.Options{
		Collection:    sc.Collection,
		EncryptionKey: key,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s index: %w", source, err)
	}

	rows, err := chunktable.Load(sc.TablePath, source)
	if err != nil {
		return nil, fmt.Errorf("load %s table: %w", source, err)
	}

	c, err := corpus.New(source, idx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s index %s and table %s: %w", source, sc.IndexPath, sc.TablePath, err)
	}
	return c, nil
}

// connectCache returns nil when the cache cannot be reached; embeddings then
// go straight to the provider.
func connectCache(ctx context.Context, cc config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cc.Addrs,
		Username: cc.Username,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		logger.Warn("Embedding cache disabled", zap.Error(err))
		return nil
	}

	timeout := time.Duration(cc.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		logger.Warn("Embedding cache not ready, disabled", zap.Error(err))
		store.Close()
		return nil
	}

	logger.Info("Connected to embedding cache", zap.Strings("addrs", cc.Addrs))
	return store
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
func buildEmbedder(
	base domain.Embedder, cfg *config.Config, store db.Store, logger *zap.Logger,
) domain.Embedder {
	embedder := base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: cfg.Cache.KeyPrefix,
			Model:     cfg.Embedding.Model,
			TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Model, cfg.Embedding.MaxBatchSize, logger,
	)

	// Outermost, so the cache key already includes the instruction.
	if cfg.Embedding.Instruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Embedding.Instruction)
	}
	return embedder
}
