package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/storage"
)

func newTestRepository(t *testing.T) storage.TenantRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func sampleRecord(tenantID string) *core.TenantRecord {
	return &core.TenantRecord{
		TenantID:     tenantID,
		ChannelTitle: "Acme Tutorials",
		ChannelURL:   "https://youtube.com/@acme",
		Videos: []core.VideoRecord{
			{ID: "v1", Title: "Intro", URL: "https://youtu.be/v1", DurationSeconds: 120, ChannelID: "acme"},
		},
	}
}

func TestUpsertAndGetTenantRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	stored, err := repo.UpsertTenantRecord(ctx, sampleRecord("tenant-1"))
	require.NoError(t, err)
	assert.False(t, stored.IngestedAt.IsZero())

	found, err := repo.GetTenantRecord(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", found.TenantID)
	assert.Equal(t, "Acme Tutorials", found.ChannelTitle)
	require.Len(t, found.Videos, 1)
	assert.Equal(t, "v1", found.Videos[0].ID)
}

func TestUpsertTenantRecordLastWriteWins(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.UpsertTenantRecord(ctx, sampleRecord("tenant-1"))
	require.NoError(t, err)

	updated := sampleRecord("tenant-1")
	updated.ChannelTitle = "Acme Tutorials v2"
	updated.Videos = append(updated.Videos,
		core.VideoRecord{ID: "v2", Title: "Part 2", URL: "https://youtu.be/v2"})
	_, err = repo.UpsertTenantRecord(ctx, updated)
	require.NoError(t, err)

	found, err := repo.GetTenantRecord(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Tutorials v2", found.ChannelTitle)
	assert.Len(t, found.Videos, 2)

	// Re-ingestion leaves exactly one record per tenant
	all, err := repo.ListTenantRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetTenantRecordNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetTenantRecord(context.Background(), "absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpsertTenantRecordEmptyID(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.UpsertTenantRecord(context.Background(), &core.TenantRecord{})
	assert.ErrorIs(t, err, core.ErrEmptyTenantID)
}

func TestUpsertTenantRecordKeepsExplicitTimestamp(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := sampleRecord("tenant-1")
	record.IngestedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := repo.UpsertTenantRecord(ctx, record)
	require.NoError(t, err)

	found, err := repo.GetTenantRecord(ctx, "tenant-1")
	require.NoError(t, err)
	assert.True(t, record.IngestedAt.Equal(found.IngestedAt))
}

func TestListTenantRecords(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.UpsertTenantRecord(ctx, sampleRecord("tenant-b"))
	require.NoError(t, err)
	_, err = repo.UpsertTenantRecord(ctx, sampleRecord("tenant-a"))
	require.NoError(t, err)

	all, err := repo.ListTenantRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "tenant-a", all[0].TenantID)
	assert.Equal(t, "tenant-b", all[1].TenantID)
}

func TestDeleteTenantRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.UpsertTenantRecord(ctx, sampleRecord("tenant-1"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTenantRecord(ctx, "tenant-1"))

	_, err = repo.GetTenantRecord(ctx, "tenant-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteTenantRecord(ctx, "tenant-1"), storage.ErrNotFound)
}
