package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openclass/tutorbot/ai"
	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/retry"
	"github.com/openclass/tutorbot/storage"
	"github.com/openclass/tutorbot/vectorstore"
)

// TopK is how many chunks retrieval feeds into generation.
const TopK = 10

const (
	retryAttempts  = 3
	retryBaseDelay = 250 * time.Millisecond
)

// Resolver answers questions against a tenant's ingested catalog: rewrite
// the question into a standalone one, retrieve the most similar chunks,
// generate an answer over them, and extract the structured form.
type Resolver struct {
	index     vectorstore.Index
	embedder  ai.Embedder
	generator ai.Generator
	extractor ai.AnswerExtractor
	tenants   storage.TenantRepository
	rewriter  *rewriter
	logger    *slog.Logger

	retryDelay time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTenantLookup lets the resolver fetch the tenant record so answers
// can name the creator's channel. Without it a generic label is used.
func WithTenantLookup(tenants storage.TenantRepository) Option {
	return func(r *Resolver) error {
		r.tenants = tenants
		return nil
	}
}

// NewResolver creates a new resolver.
func NewResolver(index vectorstore.Index, provider ai.AIProvider, opts ...Option) (*Resolver, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Resolver{
		index:      index,
		embedder:   provider.Embedder(),
		generator:  provider.Generator(),
		extractor:  provider.AnswerExtractor(),
		logger:     slog.Default().With("component", "query"),
		retryDelay: retryBaseDelay,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.rewriter = newRewriter(r.generator, r.logger)
	return r, nil
}

// Answer resolves a question within the given session.
func (r *Resolver) Answer(ctx context.Context, session *Session, question string) (*core.StructuredAnswer, error) {
	return r.AnswerWithMonitor(ctx, session, question, nil)
}

// AnswerWithMonitor resolves a question with monitoring. The monitor
// receives callbacks after each stage. Any stage failure aborts the
// resolution and is returned as a single error.
func (r *Resolver) AnswerWithMonitor(ctx context.Context, session *Session, question string, monitor QueryMonitor) (*core.StructuredAnswer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	namespace, err := core.NamespaceForTenant(session.TenantID())
	if err != nil {
		return nil, err
	}

	monitor.Start(question)

	standalone, err := r.rewriter.rewrite(ctx, session.Recent(), question)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite question: %w", err)
	}
	monitor.AfterRewrite(standalone)

	var vector []float32
	err = retry.WithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = r.embedder.EmbedText(ctx, standalone)
		return embedErr
	}, retryAttempts, r.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	var matches []core.Match
	err = retry.WithBackoff(ctx, func() error {
		var queryErr error
		matches, queryErr = r.index.Query(ctx, namespace, vector, TopK)
		if errors.Is(queryErr, vectorstore.ErrIndexUnready) {
			// The tenant has never been ingested. Repeating cannot fix that.
			return retry.Permanent(queryErr)
		}
		return queryErr
	}, retryAttempts, r.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}
	monitor.AfterRetrieval(matches)
	r.logger.Debug("retrieved context", "tenant", session.TenantID(), "matches", len(matches))

	system := tutorSystemPrompt(r.channelTitle(ctx, session.TenantID()), augmentContext(matches))

	turns := append(session.Recent(), core.ConversationTurn{Role: core.RoleUser, Text: standalone})
	var answerText string
	err = retry.WithBackoff(ctx, func() error {
		var genErr error
		answerText, genErr = r.generator.Generate(ctx, system, turns)
		return genErr
	}, retryAttempts, r.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	monitor.AfterGeneration(answerText)

	answer, err := r.extractor.ExtractAnswer(ctx, answerText)
	if err != nil {
		return nil, fmt.Errorf("failed to structure answer: %w", err)
	}

	session.Record(question, answer.Answer)
	monitor.Finish(answer)
	return answer, nil
}

// channelTitle looks up the tenant's channel title for the prompt.
// Lookup failures degrade to the generic label rather than failing the
// question.
func (r *Resolver) channelTitle(ctx context.Context, tenantID string) string {
	if r.tenants == nil {
		return ""
	}

	record, err := r.tenants.GetTenantRecord(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("tenant record lookup failed", "tenant", tenantID, "err", err)
		}
		return ""
	}
	return record.ChannelTitle
}
