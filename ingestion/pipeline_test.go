package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclass/tutorbot/ai/mock"
	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/storage"
	storagebadger "github.com/openclass/tutorbot/storage/badger"
	"github.com/openclass/tutorbot/transcribe"
	"github.com/openclass/tutorbot/vectorstore/memory"
)

type fakeSource struct {
	videos []core.VideoRecord
	err    error
	calls  int
}

func (s *fakeSource) List(ctx context.Context, channelURL string, maxVideos int) ([]core.VideoRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.videos) > maxVideos {
		return s.videos[:maxVideos], nil
	}
	return s.videos, nil
}

type fakeTranscriber struct {
	texts   map[string]string
	failing map[string]bool
}

func (tr *fakeTranscriber) Transcribe(ctx context.Context, video core.VideoRecord) (string, error) {
	if tr.failing[video.ID] {
		return "", fmt.Errorf("%w: video %s", transcribe.ErrDownloadFailed, video.ID)
	}
	return tr.texts[video.ID], nil
}

func testVideos(n int) []core.VideoRecord {
	videos := make([]core.VideoRecord, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("v%d", i+1)
		videos = append(videos, core.VideoRecord{
			ID:    id,
			Title: "Video " + id,
			URL:   "https://youtu.be/" + id,
		})
	}
	return videos
}

func testTranscripts(videos []core.VideoRecord) map[string]string {
	texts := make(map[string]string, len(videos))
	for _, video := range videos {
		texts[video.ID] = strings.Repeat("transcript for "+video.ID+". ", 100)
	}
	return texts
}

type pipelineEnv struct {
	source      *fakeSource
	transcriber *fakeTranscriber
	index       *memory.Index
	tenants     storage.TenantRepository
	pipeline    *Pipeline
}

func newPipelineEnv(t *testing.T, videos []core.VideoRecord, opts ...Option) *pipelineEnv {
	t.Helper()

	source := &fakeSource{videos: videos}
	transcriber := &fakeTranscriber{
		texts:   testTranscripts(videos),
		failing: make(map[string]bool),
	}
	index := memory.NewIndex()

	tenants, backend, err := storagebadger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		tenants.Close()
		backend.Close()
	})

	pipeline, err := NewPipeline(source, transcriber, mock.NewMockProvider(), index, tenants, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineEnv{
		source:      source,
		transcriber: transcriber,
		index:       index,
		tenants:     tenants,
		pipeline:    pipeline,
	}
}

func TestPipelineRun(t *testing.T) {
	env := newPipelineEnv(t, testVideos(3))

	report, err := env.pipeline.Run(context.Background(), Request{
		TenantID:     "Tenant-1",
		ChannelURL:   "https://youtube.com/@acme",
		ChannelTitle: "Acme Tutorials",
	})
	require.NoError(t, err)

	assert.Equal(t, "tutor-chatbot-tenant1", report.Namespace)
	assert.Equal(t, 3, report.VideosListed)
	assert.Equal(t, 3, report.VideosTranscribed)
	assert.Empty(t, report.Failures)
	assert.Greater(t, report.Chunks, 3)

	assert.Equal(t, report.Chunks, env.index.Count(report.Namespace))

	record, err := env.tenants.GetTenantRecord(context.Background(), "Tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Tutorials", record.ChannelTitle)
	assert.Len(t, record.Videos, 3)
	assert.False(t, record.IngestedAt.IsZero())
}

func TestPipelineRunPartialFailure(t *testing.T) {
	env := newPipelineEnv(t, testVideos(3))
	env.transcriber.failing["v2"] = true

	report, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.VideosListed)
	assert.Equal(t, 2, report.VideosTranscribed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "v2", report.Failures[0].VideoID)
	assert.ErrorIs(t, report.Failures[0].Err, transcribe.ErrDownloadFailed)

	record, err := env.tenants.GetTenantRecord(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, record.Videos, 2)
	assert.Equal(t, "v1", record.Videos[0].ID)
	assert.Equal(t, "v3", record.Videos[1].ID)
}

func TestPipelineRunAllVideosFail(t *testing.T) {
	env := newPipelineEnv(t, testVideos(3))
	for _, video := range testVideos(3) {
		env.transcriber.failing[video.ID] = true
	}

	_, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoContent)

	// Nothing reaches the index or the tenant repository
	assert.False(t, env.index.HasNamespace("tutor-chatbot-tenant1"))
	_, err = env.tenants.GetTenantRecord(context.Background(), "tenant-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPipelineRunRejectsTooManyVideos(t *testing.T) {
	env := newPipelineEnv(t, testVideos(3))

	_, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
		MaxVideos:  MaxVideosPerRun + 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyVideos)

	// Rejected before touching the source
	assert.Equal(t, 0, env.source.calls)
}

func TestPipelineRunSourceFailure(t *testing.T) {
	env := newPipelineEnv(t, nil)
	env.source.err = errors.New("upstream down")

	_, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestPipelineRunConverges(t *testing.T) {
	env := newPipelineEnv(t, testVideos(2))

	first, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.NoError(t, err)

	second, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.NoError(t, err)

	// Unchanged content produces the same chunk IDs, so the index does
	// not grow across runs
	assert.Equal(t, first.Chunks, second.Chunks)
	assert.Equal(t, first.Chunks, env.index.Count(first.Namespace))
}

func TestPipelineRunReplaceNamespace(t *testing.T) {
	env := newPipelineEnv(t, testVideos(2), WithReplaceNamespace(true))

	first, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.NoError(t, err)
	require.Equal(t, first.Chunks, env.index.Count(first.Namespace))

	// Channel shrinks to one video; replace mode leaves no stale chunks
	env.source.videos = testVideos(1)
	second, err := env.pipeline.Run(context.Background(), Request{
		TenantID:   "tenant-1",
		ChannelURL: "https://youtube.com/@acme",
	})
	require.NoError(t, err)
	assert.Less(t, second.Chunks, first.Chunks)
	assert.Equal(t, second.Chunks, env.index.Count(second.Namespace))
}

func TestNewPipelineRequiresDependencies(t *testing.T) {
	source := &fakeSource{}
	transcriber := &fakeTranscriber{}
	index := memory.NewIndex()
	provider := mock.NewMockProvider()

	tenants, backend, err := storagebadger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		tenants.Close()
		backend.Close()
	})

	_, err = NewPipeline(nil, transcriber, provider, index, tenants)
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewPipeline(source, nil, provider, index, tenants)
	assert.ErrorIs(t, err, ErrTranscriberRequired)

	_, err = NewPipeline(source, transcriber, nil, index, tenants)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewPipeline(source, transcriber, provider, nil, tenants)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewPipeline(source, transcriber, provider, index, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}
