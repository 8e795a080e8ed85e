package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApify struct {
	pollsUntilDone int32
	items          []map[string]any
	runStatus      string
}

func (f *fakeApify) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v2/acts/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{
			"id":               "run-1",
			"status":           "RUNNING",
			"defaultDatasetId": "ds-1",
		}})
	})

	mux.HandleFunc("GET /v2/actor-runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		status := f.runStatus
		if atomic.AddInt32(&f.pollsUntilDone, -1) > 0 {
			status = "RUNNING"
		}
		writeJSON(t, w, map[string]any{"data": map[string]any{
			"id":               "run-1",
			"status":           status,
			"defaultDatasetId": "ds-1",
		}})
	})

	mux.HandleFunc("GET /v2/datasets/ds-1/items", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		page := []map[string]any{}
		for i := offset; i < len(f.items) && i < offset+limit; i++ {
			page = append(page, f.items[i])
		}
		writeJSON(t, w, page)
	})

	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestSource(t *testing.T, server *httptest.Server) *ApifySource {
	t.Helper()
	source, err := NewApifySource(ApifyConfig{
		BaseURL:      server.URL,
		Token:        "test-token",
		PollInterval: time.Millisecond,
		WaitTimeout:  time.Second,
		HTTPClient:   server.Client(),
	})
	require.NoError(t, err)
	source.retryDelay = time.Millisecond
	return source
}

func TestApifySourceList(t *testing.T) {
	fake := &fakeApify{
		pollsUntilDone: 2,
		runStatus:      "SUCCEEDED",
		items: []map[string]any{
			{"id": "v1", "title": "Intro", "url": "https://youtu.be/v1", "duration": "10:05", "channelUsername": "acme"},
			{"id": "v2", "title": "Deep Dive", "url": "https://youtu.be/v2", "duration": "1:02:03", "channelUsername": "acme"},
		},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	source := newTestSource(t, server)

	records, err := source.List(context.Background(), "https://youtube.com/@acme", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "v1", records[0].ID)
	assert.Equal(t, "Intro", records[0].Title)
	assert.Equal(t, 605, records[0].DurationSeconds)
	assert.Equal(t, 3723, records[1].DurationSeconds)
	assert.Equal(t, "acme", records[1].ChannelID)
}

func TestApifySourceListCapsAtMaxVideos(t *testing.T) {
	items := make([]map[string]any, 0, 150)
	for i := 0; i < 150; i++ {
		items = append(items, map[string]any{
			"id":    fmt.Sprintf("v%d", i),
			"title": fmt.Sprintf("Video %d", i),
			"url":   fmt.Sprintf("https://youtu.be/v%d", i),
		})
	}
	fake := &fakeApify{pollsUntilDone: 1, runStatus: "SUCCEEDED", items: items}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	source := newTestSource(t, server)

	records, err := source.List(context.Background(), "https://youtube.com/@acme", 5)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, "v4", records[4].ID)
}

func TestApifySourceListSkipsUnusableItems(t *testing.T) {
	fake := &fakeApify{
		pollsUntilDone: 1,
		runStatus:      "SUCCEEDED",
		items: []map[string]any{
			{"id": "", "title": "No ID", "url": "https://youtu.be/x"},
			{"id": "v2", "title": "Kept", "url": "https://youtu.be/v2"},
		},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	source := newTestSource(t, server)

	records, err := source.List(context.Background(), "https://youtube.com/@acme", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v2", records[0].ID)
}

func TestApifySourceListFailedRun(t *testing.T) {
	fake := &fakeApify{pollsUntilDone: 1, runStatus: "FAILED"}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	source := newTestSource(t, server)

	_, err := source.List(context.Background(), "https://youtube.com/@acme", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestApifySourceListUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := newTestSource(t, server)

	_, err := source.List(context.Background(), "https://youtube.com/@acme", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestApifySourceListInvalidMaxVideos(t *testing.T) {
	source, err := NewApifySource(ApifyConfig{Token: "t"})
	require.NoError(t, err)

	_, err = source.List(context.Background(), "https://youtube.com/@acme", 0)
	assert.ErrorIs(t, err, ErrInvalidMaxVideos)
}

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"0:45", 45},
		{"10:05", 605},
		{"1:02:03", 3723},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDurationSeconds(tt.input), "input %q", tt.input)
	}
}
