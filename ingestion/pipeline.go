package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/openclass/tutorbot/ai"
	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/metadata"
	"github.com/openclass/tutorbot/retry"
	"github.com/openclass/tutorbot/storage"
	"github.com/openclass/tutorbot/transcribe"
	"github.com/openclass/tutorbot/vectorstore"
)

const (
	// MaxVideosPerRun bounds how many videos a single ingestion may process.
	MaxVideosPerRun = 10

	embedBatchSize = 100

	retryAttempts  = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Pipeline orchestrates catalog ingestion for a tenant: listing the
// channel, transcribing each video, assembling and chunking the corpus,
// embedding the chunks, and writing the results to the vector index and
// the tenant repository.
type Pipeline struct {
	source      metadata.Source
	transcriber transcribe.Transcriber
	provider    ai.AIProvider
	index       vectorstore.Index
	tenants     storage.TenantRepository
	pool        *ants.Pool
	replace     bool
	locks       *TenantLocks
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent transcription.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithReplaceNamespace makes each run drop and recreate the tenant's
// namespace instead of converging by chunk ID. Slower, but guarantees no
// stale chunks survive when the channel shrinks.
func WithReplaceNamespace(replace bool) Option {
	return func(p *Pipeline) error {
		p.replace = replace
		return nil
	}
}

// WithTenantLocks shares a lock set between pipelines. Pipelines created
// with the same set serialize runs for the same tenant even across
// pipeline instances. Default is a set private to this pipeline.
func WithTenantLocks(locks *TenantLocks) Option {
	return func(p *Pipeline) error {
		if locks == nil {
			return fmt.Errorf("tenant locks cannot be nil")
		}
		p.locks = locks
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	source metadata.Source,
	transcriber transcribe.Transcriber,
	provider ai.AIProvider,
	index vectorstore.Index,
	tenants storage.TenantRepository,
	opts ...Option,
) (*Pipeline, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if transcriber == nil {
		return nil, ErrTranscriberRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if tenants == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:      source,
		transcriber: transcriber,
		provider:    provider,
		index:       index,
		tenants:     tenants,
		pool:        pool,
		locks:       NewTenantLocks(),
		logger:      slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Request describes one ingestion run.
type Request struct {
	// TenantID identifies the creator. Required.
	TenantID string

	// ChannelURL is the channel to ingest. Required.
	ChannelURL string

	// ChannelTitle is a display name stored with the tenant record.
	ChannelTitle string

	// MaxVideos caps how many videos to process. Zero means MaxVideosPerRun.
	MaxVideos int
}

// VideoFailure records a video that could not be transcribed.
type VideoFailure struct {
	VideoID string
	Err     error
}

// Report summarizes a completed run.
type Report struct {
	TenantID          string
	Namespace         string
	VideosListed      int
	VideosTranscribed int
	Chunks            int
	Failures          []VideoFailure
}

// Run executes a full ingestion for one tenant. Individual video failures
// are recorded in the report and do not abort the run; the run fails only
// when no video yields any transcript text, or when a shared stage
// (listing, embedding, indexing, record write) fails.
//
// Runs for the same tenant are serialized; runs for different tenants may
// proceed concurrently.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	namespace, err := core.NamespaceForTenant(req.TenantID)
	if err != nil {
		return nil, err
	}

	maxVideos := req.MaxVideos
	if maxVideos == 0 {
		maxVideos = MaxVideosPerRun
	}
	if maxVideos < 0 || maxVideos > MaxVideosPerRun {
		return nil, fmt.Errorf("%w: requested %d, limit %d", ErrTooManyVideos, maxVideos, MaxVideosPerRun)
	}

	lock := p.locks.lockFor(req.TenantID)
	lock.Lock()
	defer lock.Unlock()

	p.logger.Info("starting ingestion", "tenant", req.TenantID, "channel", req.ChannelURL, "maxVideos", maxVideos)

	videos, err := p.source.List(ctx, req.ChannelURL, maxVideos)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel %s: %w", req.ChannelURL, err)
	}

	report := &Report{
		TenantID:     req.TenantID,
		Namespace:    namespace,
		VideosListed: len(videos),
	}

	units, failures := p.transcribeAll(ctx, videos)
	report.Failures = failures
	report.VideosTranscribed = len(units)

	corpus, err := AssembleCorpus(req.TenantID, units)
	if err != nil {
		return nil, err
	}

	chunks := ChunkCorpus(corpus)
	report.Chunks = len(chunks)
	p.logger.Info("corpus assembled", "tenant", req.TenantID, "units", len(corpus.Units), "chunks", len(chunks))

	embedded, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	if p.replace {
		if err := p.index.DropNamespace(ctx, namespace); err != nil {
			return nil, fmt.Errorf("failed to drop namespace %s: %w", namespace, err)
		}
	}
	if err := p.index.EnsureNamespace(ctx, namespace); err != nil {
		return nil, fmt.Errorf("failed to prepare namespace %s: %w", namespace, err)
	}
	// Chunk ids derive from content, so a retried upsert converges on the
	// same points instead of duplicating them.
	err = retry.WithBackoff(ctx, func() error {
		return p.index.Upsert(ctx, namespace, embedded)
	}, retryAttempts, retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to index chunks for %s: %w", namespace, err)
	}

	ingested := ingestedVideos(videos, corpus.Units)
	_, err = p.tenants.UpsertTenantRecord(ctx, &core.TenantRecord{
		TenantID:     req.TenantID,
		ChannelTitle: req.ChannelTitle,
		ChannelURL:   req.ChannelURL,
		Videos:       ingested,
		IngestedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write tenant record: %w", err)
	}

	p.logger.Info("ingestion complete",
		"tenant", req.TenantID,
		"namespace", namespace,
		"videos", report.VideosTranscribed,
		"chunks", report.Chunks,
		"failures", len(report.Failures))
	return report, nil
}

// transcribeAll runs per-video transcription on the worker pool. A failed
// video is logged and skipped so one broken download cannot sink the run.
func (p *Pipeline) transcribeAll(ctx context.Context, videos []core.VideoRecord) ([]core.TranscriptUnit, []VideoFailure) {
	type result struct {
		unit core.TranscriptUnit
		err  error
		idx  int
	}

	results := make([]result, len(videos))
	var wg sync.WaitGroup

	for i, video := range videos {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			text, err := p.transcriber.Transcribe(ctx, video)
			results[i] = result{
				idx: i,
				err: err,
				unit: core.TranscriptUnit{
					VideoID: video.ID,
					Title:   video.Title,
					URL:     video.URL,
					Text:    text,
				},
			}
		})
		if submitErr != nil {
			results[i] = result{idx: i, err: submitErr}
			wg.Done()
		}
	}
	wg.Wait()

	var units []core.TranscriptUnit
	var failures []VideoFailure
	for i, res := range results {
		if res.err != nil {
			p.logger.Warn("video skipped", "video", videos[i].ID, "err", res.err)
			failures = append(failures, VideoFailure{VideoID: videos[i].ID, Err: res.err})
			continue
		}
		units = append(units, res.unit)
	}
	return units, failures
}

// embedChunks embeds chunk texts in bounded batches and pairs each vector
// with its chunk.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []core.Chunk) ([]core.EmbeddedChunk, error) {
	embedder := p.provider.Embedder()
	embedded := make([]core.EmbeddedChunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		var vectors [][]float32
		err := retry.WithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, retryAttempts, retryBaseDelay)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
		}

		for i, chunk := range batch {
			embedded = append(embedded, core.EmbeddedChunk{Chunk: chunk, Vector: vectors[i]})
		}

		p.logger.Debug("embedded batch", "chunks", len(batch))
	}

	return embedded, nil
}

// ingestedVideos keeps only the listed videos that contributed transcript
// text, in listing order.
func ingestedVideos(videos []core.VideoRecord, units []core.TranscriptUnit) []core.VideoRecord {
	byID := make(map[string]struct{}, len(units))
	for _, unit := range units {
		byID[unit.VideoID] = struct{}{}
	}

	kept := make([]core.VideoRecord, 0, len(units))
	for _, video := range videos {
		if _, ok := byID[video.ID]; ok {
			kept = append(kept, video)
		}
	}
	return kept
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
