package query

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclass/tutorbot/ai/mock"
	"github.com/openclass/tutorbot/core"
	storagebadger "github.com/openclass/tutorbot/storage/badger"
	"github.com/openclass/tutorbot/vectorstore"
	"github.com/openclass/tutorbot/vectorstore/memory"
)

const testNamespace = "tutor-chatbot-tenant1"

func seedIndex(t *testing.T, index *memory.Index, texts ...string) {
	t.Helper()
	chunks := make([]core.EmbeddedChunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, core.EmbeddedChunk{
			Chunk: core.Chunk{
				Id:            core.ID(i + 1),
				SourceVideoID: "v1",
				SourceTitle:   "Planning 101",
				SourceURL:     "https://youtu.be/v1",
				Text:          text,
			},
			Vector: mock.DeterministicVector(text),
		})
	}
	require.NoError(t, index.Upsert(context.Background(), testNamespace, chunks))
}

type recordingMonitor struct {
	started    string
	standalone string
	matches    []core.Match
	generated  string
	finished   *core.StructuredAnswer
}

func (m *recordingMonitor) Start(question string)              { m.started = question }
func (m *recordingMonitor) AfterRewrite(standalone string)     { m.standalone = standalone }
func (m *recordingMonitor) AfterRetrieval(matches []core.Match) { m.matches = matches }
func (m *recordingMonitor) AfterGeneration(answer string)      { m.generated = answer }
func (m *recordingMonitor) Finish(a *core.StructuredAnswer)    { m.finished = a }

func TestResolverAnswer(t *testing.T) {
	index := memory.NewIndex()
	seedIndex(t, index,
		"the deadline is Friday",
		"cats enjoy sleeping in the sun",
		"quarterly report numbers look good",
	)

	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system string, turns []core.ConversationTurn) (string, error) {
		return "The deadline is Friday, see Planning 101.", nil
	}

	resolver, err := NewResolver(index, provider)
	require.NoError(t, err)

	session := NewSession("Tenant-1")
	monitor := &recordingMonitor{}

	answer, err := resolver.AnswerWithMonitor(context.Background(), session, "When is the deadline?", monitor)
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, "The deadline is Friday, see Planning 101.", answer.Answer)

	// No history yet, so the question passes through the rewriter untouched
	assert.Equal(t, "When is the deadline?", monitor.standalone)
	require.NotEmpty(t, monitor.matches)
	assert.Equal(t, "the deadline is Friday", monitor.matches[0].Text)
	require.NotNil(t, monitor.finished)

	// The generation prompt carries the retrieved context
	assert.Contains(t, generator.LastSystem(), "the deadline is Friday")
	assert.Contains(t, generator.LastSystem(), contextSeparator)

	// The exchange lands in the session
	turns := session.Recent()
	require.Len(t, turns, 2)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, "When is the deadline?", turns[0].Text)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
}

func TestResolverAnswerRewritesFollowUps(t *testing.T) {
	index := memory.NewIndex()
	seedIndex(t, index, "the deadline is Friday")

	var systems []string
	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system string, turns []core.ConversationTurn) (string, error) {
		systems = append(systems, system)
		if system == rewritePrompt {
			return "When is the project deadline?", nil
		}
		return "It is Friday.", nil
	}

	resolver, err := NewResolver(index, provider)
	require.NoError(t, err)

	session := NewSession("tenant-1")
	session.Record("Tell me about the project.", "The project ships this quarter.")

	answer, err := resolver.Answer(context.Background(), session, "And when is it due?")
	require.NoError(t, err)
	assert.Equal(t, "It is Friday.", answer.Answer)

	// First generation call rewrites, second answers
	require.Len(t, systems, 2)
	assert.Equal(t, rewritePrompt, systems[0])
	assert.True(t, strings.HasPrefix(systems[1], "You are a knowledgeable tutor"))
}

func TestResolverAnswerCapsRetrievalAtTopK(t *testing.T) {
	index := memory.NewIndex()
	texts := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		texts = append(texts, strings.Repeat("chunk ", i+1))
	}
	seedIndex(t, index, texts...)

	resolver, err := NewResolver(index, mock.NewMockProvider())
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = resolver.AnswerWithMonitor(context.Background(), NewSession("tenant-1"), "anything?", monitor)
	require.NoError(t, err)
	assert.Len(t, monitor.matches, TopK)
}

func TestResolverAnswerUsesChannelTitle(t *testing.T) {
	index := memory.NewIndex()
	seedIndex(t, index, "some content")

	tenants, backend, err := storagebadger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		tenants.Close()
		backend.Close()
	})
	_, err = tenants.UpsertTenantRecord(context.Background(), &core.TenantRecord{
		TenantID:     "Tenant-1",
		ChannelTitle: "Acme Tutorials",
	})
	require.NoError(t, err)

	provider := mock.NewMockProvider()
	resolver, err := NewResolver(index, provider, WithTenantLookup(tenants))
	require.NoError(t, err)

	_, err = resolver.Answer(context.Background(), NewSession("Tenant-1"), "What is this about?")
	require.NoError(t, err)

	generator := provider.(*mock.MockProvider).GetMockGenerator()
	assert.Contains(t, generator.LastSystem(), "Acme Tutorials")
}

func TestResolverAnswerGenerationFailure(t *testing.T) {
	index := memory.NewIndex()
	seedIndex(t, index, "some content")

	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, system string, turns []core.ConversationTurn) (string, error) {
		return "", errors.New("model unavailable")
	}

	resolver, err := NewResolver(index, provider)
	require.NoError(t, err)
	resolver.retryDelay = time.Millisecond

	session := NewSession("tenant-1")
	_, err = resolver.Answer(context.Background(), session, "When is the deadline?")
	require.ErrorIs(t, err, ErrGeneration)
	assert.Contains(t, err.Error(), "model unavailable")

	// Failed exchanges are not recorded
	assert.Empty(t, session.Recent())
}

func TestResolverAnswerBeforeIngestion(t *testing.T) {
	provider := mock.NewMockProvider()
	generator := provider.(*mock.MockProvider).GetMockGenerator()

	resolver, err := NewResolver(memory.NewIndex(), provider)
	require.NoError(t, err)

	session := NewSession("tenant-1")
	_, err = resolver.Answer(context.Background(), session, "When is the deadline?")
	require.ErrorIs(t, err, vectorstore.ErrIndexUnready)

	// Nothing is generated or recorded for a tenant that was never ingested.
	assert.Zero(t, generator.CallCount())
	assert.Empty(t, session.Recent())
}

func TestResolverAnswerEmptyQuestion(t *testing.T) {
	resolver, err := NewResolver(memory.NewIndex(), mock.NewMockProvider())
	require.NoError(t, err)

	_, err = resolver.Answer(context.Background(), NewSession("tenant-1"), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestNewResolverRequiresDependencies(t *testing.T) {
	_, err := NewResolver(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewResolver(memory.NewIndex(), nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}
