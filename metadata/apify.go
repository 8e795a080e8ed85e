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


package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/retry"
)

const (
	defaultBaseURL      = "https://api.apify.com"
	defaultActorID      = "67Q6fmd8iedTVcCwY"
	defaultPollInterval = 3 * time.Second
	defaultWaitTimeout  = 5 * time.Minute
	datasetPageLimit    = 100

	httpAttempts  = 3
	httpBaseDelay = time.Second
)

// ApifyConfig configures the Apify-backed metadata source.
type ApifyConfig struct {
	// BaseURL is the Apify API root. Defaults to the public API.
	BaseURL string

	// Token authenticates API calls.
	Token string

	// ActorID identifies the channel-scraper actor.
	ActorID string

	// PollInterval is the delay between run-status polls.
	PollInterval time.Duration

	// WaitTimeout bounds how long a run may stay unfinished.
	WaitTimeout time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// ApifySource implements Source against the Apify actor-run API:
// start a run for the channel, wait for it to succeed, then page the run's
// default dataset until enough records are collected.
type ApifySource struct {
	config     ApifyConfig
	client     *http.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

var _ Source = (*ApifySource)(nil)

// NewApifySource creates a metadata source backed by an Apify actor.
func NewApifySource(config ApifyConfig) (*ApifySource, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("apify source: token required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.ActorID == "" {
		config.ActorID = defaultActorID
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = defaultWaitTimeout
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &ApifySource{
		config:     config,
		client:     client,
		logger:     slog.Default().With("component", "apify-source"),
		retryDelay: httpBaseDelay,
	}, nil
}

type runInput struct {
	MaxResults       int              `json:"maxResults"`
	MaxResultStreams int              `json:"maxResultStreams"`
	MaxResultsShorts int              `json:"maxResultsShorts"`
	StartURLs        []map[string]any `json:"startUrls"`
}

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runData `json:"data"`
}

type datasetItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Duration        string `json:"duration"`
	ChannelUsername string `json:"channelUsername"`
}

// List starts an actor run for the channel and collects up to maxVideos
// records from its dataset.
func (s *ApifySource) List(ctx context.Context, channelURL string, maxVideos int) ([]core.VideoRecord, error) {
	if maxVideos <= 0 {
		return nil, ErrInvalidMaxVideos
	}

	run, err := s.startRun(ctx, channelURL, maxVideos)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.logger.Info("actor run started", "run", run.ID, "channel", channelURL)

	run, err = s.waitForRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	records, err := s.collectItems(ctx, run.DefaultDatasetID, maxVideos)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.logger.Info("listed channel videos", "channel", channelURL, "videos", len(records))
	return records, nil
}

func (s *ApifySource) startRun(ctx context.Context, channelURL string, maxVideos int) (runData, error) {
	input := runInput{
		MaxResults: maxVideos,
		StartURLs:  []map[string]any{{"url": channelURL}},
	}
	body, err := json.Marshal(input)
	if err != nil {
		return runData{}, err
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s",
		s.config.BaseURL, s.config.ActorID, url.QueryEscape(s.config.Token))

	var envelope runEnvelope
	err = retry.WithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		return s.doJSON(req, &envelope)
	}, httpAttempts, s.retryDelay)
	if err != nil {
		return runData{}, err
	}

	if envelope.Data.ID == "" {
		return runData{}, fmt.Errorf("run response missing id")
	}
	return envelope.Data, nil
}

func (s *ApifySource) waitForRun(ctx context.Context, run runData) (runData, error) {
	deadline := time.Now().Add(s.config.WaitTimeout)
	endpoint := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s",
		s.config.BaseURL, run.ID, url.QueryEscape(s.config.Token))

	for {
		var envelope runEnvelope
		err := retry.WithBackoff(ctx, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Permanent(err)
			}
			return s.doJSON(req, &envelope)
		}, httpAttempts, s.retryDelay)
		if err != nil {
			return runData{}, err
		}

		switch envelope.Data.Status {
		case "SUCCEEDED":
			return envelope.Data, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return runData{}, fmt.Errorf("actor run %s ended with status %s", run.ID, envelope.Data.Status)
		}

		if time.Now().After(deadline) {
			return runData{}, fmt.Errorf("actor run %s not finished after %s", run.ID, s.config.WaitTimeout)
		}

		s.logger.Debug("waiting for actor run", "run", run.ID, "status", envelope.Data.Status)
		timer := time.NewTimer(s.config.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return runData{}, ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *ApifySource) collectItems(ctx context.Context, datasetID string, maxVideos int) ([]core.VideoRecord, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("run has no dataset")
	}

	var records []core.VideoRecord
	offset := 0

	for len(records) < maxVideos {
		endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&clean=true&offset=%d&limit=%d",
			s.config.BaseURL, datasetID, url.QueryEscape(s.config.Token), offset, datasetPageLimit)

		var items []datasetItem
		err := retry.WithBackoff(ctx, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Permanent(err)
			}
			return s.doJSON(req, &items)
		}, httpAttempts, s.retryDelay)
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			break
		}

		for _, item := range items {
			record := core.VideoRecord{
				ID:              item.ID,
				Title:           item.Title,
				URL:             item.URL,
				DurationSeconds: parseDurationSeconds(item.Duration),
				ChannelID:       item.ChannelUsername,
			}
			if err := core.ValidateVideoRecord(&record); err != nil {
				s.logger.Warn("skipping unusable listing item", "err", err)
				continue
			}
			records = append(records, record)
			if len(records) == maxVideos {
				break
			}
		}

		offset += len(items)
	}

	return records, nil
}

// doJSON executes the request and decodes the response body into out.
func (s *ApifySource) doJSON(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("upstream returned %s", resp.Status)
		// Client errors won't heal on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return retry.Permanent(err)
		}
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// parseDurationSeconds converts "H:MM:SS", "MM:SS" or "SS" to seconds.
// Unparseable durations yield 0.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	parts := strings.Split(duration, ":")
	seconds := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		seconds = seconds*60 + n
	}
	return seconds
}
