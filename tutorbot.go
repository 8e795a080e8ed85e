// Copyright 2025 Openclass
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package tutorbot

import (
	"log/slog"
	"sync"

	"github.com/openclass/tutorbot/ai"
	"github.com/openclass/tutorbot/ai/openai"
	"github.com/openclass/tutorbot/ingestion"
	"github.com/openclass/tutorbot/metadata"
	"github.com/openclass/tutorbot/query"
	"github.com/openclass/tutorbot/storage"
	storagebadger "github.com/openclass/tutorbot/storage/badger"
	"github.com/openclass/tutorbot/transcribe"
	"github.com/openclass/tutorbot/vectorstore"
	vectorqdrant "github.com/openclass/tutorbot/vectorstore/qdrant"
)

// App wires the catalog service together: tenant storage, the vector
// index, the model provider, and the ingestion and query entry points.
type App struct {
	backend     *storagebadger.Backend
	tenants     storage.TenantRepository
	index       vectorstore.Index
	provider    ai.AIProvider
	ingestLocks *ingestion.TenantLocks
	options     *appOptions
	logger      *slog.Logger

	// Guards the lazily built transcriber shared by all pipelines.
	mu          sync.Mutex
	transcriber transcribe.Transcriber
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig     *ai.Config
	apifyConfig  metadata.ApifyConfig
	qdrantConfig vectorqdrant.Config
	toolConfig   transcribe.ToolConfig
	workspaceDir string

	// Overrides, mainly for tests
	index       vectorstore.Index
	provider    ai.AIProvider
	source      metadata.Source
	transcriber transcribe.Transcriber
}

// WithAIConfig sets the model provider configuration.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = config
	}
}

// WithApifyConfig sets the channel listing configuration.
func WithApifyConfig(config metadata.ApifyConfig) AppOption {
	return func(o *appOptions) {
		o.apifyConfig = config
	}
}

// WithQdrantConfig sets the vector index connection configuration.
func WithQdrantConfig(config vectorqdrant.Config) AppOption {
	return func(o *appOptions) {
		o.qdrantConfig = config
	}
}

// WithToolConfig sets the transcription tool configuration.
func WithToolConfig(config transcribe.ToolConfig) AppOption {
	return func(o *appOptions) {
		o.toolConfig = config
	}
}

// WithWorkspaceDir sets where transcription scratch files live.
// Default is "workspace" under the data directory.
func WithWorkspaceDir(dir string) AppOption {
	return func(o *appOptions) {
		o.workspaceDir = dir
	}
}

// WithVectorIndex replaces the default Qdrant index.
func WithVectorIndex(index vectorstore.Index) AppOption {
	return func(o *appOptions) {
		o.index = index
	}
}

// WithAIProvider replaces the default model provider.
func WithAIProvider(provider ai.AIProvider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// WithMetadataSource replaces the default Apify listing source.
func WithMetadataSource(source metadata.Source) AppOption {
	return func(o *appOptions) {
		o.source = source
	}
}

// WithTranscriber replaces the default yt-dlp/whisper transcriber.
func WithTranscriber(transcriber transcribe.Transcriber) AppOption {
	return func(o *appOptions) {
		o.transcriber = transcriber
	}
}

// NewApp opens the tenant database at dataDir and connects the vector
// index and model provider.
func NewApp(dataDir string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := storagebadger.OpenBackend(dataDir, false)
	if err != nil {
		return nil, err
	}

	tenants, err := storagebadger.NewTenantRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index := options.index
	if index == nil {
		index, err = vectorqdrant.NewIndex(options.qdrantConfig)
		if err != nil {
			tenants.Close()
			backend.Close()
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			index.Close()
			tenants.Close()
			backend.Close()
			return nil, err
		}
	}

	if options.workspaceDir == "" {
		options.workspaceDir = dataDir + "/workspace"
	}

	return &App{
		backend:     backend,
		tenants:     tenants,
		index:       index,
		provider:    provider,
		ingestLocks: ingestion.NewTenantLocks(),
		options:     options,
		logger:      slog.Default(),
	}, nil
}

// Close releases the app's resources in dependency order.
func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.index.Close(); err != nil {
		a.logger.Error("error closing vector index", "err", err)
	}
	if err := a.tenants.Close(); err != nil {
		a.logger.Error("error closing tenant repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// TenantRepository exposes the tenant record store.
func (a *App) TenantRepository() storage.TenantRepository {
	return a.tenants
}

// VectorIndex exposes the vector index.
func (a *App) VectorIndex() vectorstore.Index {
	return a.index
}

// NewIngestionPipeline builds an ingestion pipeline. The listing source
// and transcriber are created on demand so ask-only deployments never
// need Apify credentials or the transcription tools. Every pipeline from
// the same App shares one tenant lock set and one workspace, so
// concurrent runs for the same tenant are serialized and building a
// second pipeline never clears artifacts a running pipeline is using.
func (a *App) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	source := a.options.source
	if source == nil {
		var err error
		source, err = metadata.NewApifySource(a.options.apifyConfig)
		if err != nil {
			return nil, err
		}
	}

	transcriber, err := a.sharedTranscriber()
	if err != nil {
		return nil, err
	}

	opts = append([]ingestion.Option{ingestion.WithTenantLocks(a.ingestLocks)}, opts...)
	return ingestion.NewPipeline(source, transcriber, a.provider, a.index, a.tenants, opts...)
}

// sharedTranscriber lazily builds the app's transcriber. The workspace
// is reset only when the transcriber is first built.
func (a *App) sharedTranscriber() (transcribe.Transcriber, error) {
	if a.options.transcriber != nil {
		return a.options.transcriber, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.transcriber != nil {
		return a.transcriber, nil
	}

	workspace, err := transcribe.NewWorkspace(a.options.workspaceDir)
	if err != nil {
		return nil, err
	}
	if err := workspace.Reset(); err != nil {
		return nil, err
	}
	transcriber, err := transcribe.NewToolTranscriber(a.options.toolConfig, workspace)
	if err != nil {
		return nil, err
	}
	a.transcriber = transcriber
	return transcriber, nil
}

// NewResolver builds a query resolver over the app's index and provider.
func (a *App) NewResolver(opts ...query.Option) (*query.Resolver, error) {
	opts = append([]query.Option{query.WithTenantLookup(a.tenants)}, opts...)
	return query.NewResolver(a.index, a.provider, opts...)
}

// NewSession starts a fresh conversation session for a tenant.
func (a *App) NewSession(tenantID string) *query.Session {
	return query.NewSession(tenantID)
}
