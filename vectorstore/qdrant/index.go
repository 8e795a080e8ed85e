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


package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/vectorstore"
)

const (
	defaultAddress      = "localhost:6334"
	defaultReadyTimeout = 2 * time.Minute
	readyPollInterval   = time.Second
	upsertBatchSize     = 100
)

const (
	payloadText    = "text"
	payloadVideoID = "videoId"
	payloadTitle   = "title"
	payloadURL     = "url"
)

// Config configures the connection to a Qdrant server.
type Config struct {
	// Address is the gRPC endpoint. Defaults to localhost:6334.
	Address string

	// ReadyTimeout bounds how long EnsureNamespace waits for a new
	// collection to become servable.
	ReadyTimeout time.Duration
}

// Index implements vectorstore.Index on Qdrant. Each namespace maps to a
// collection with cosine distance and fixed dimensionality.
type Index struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	config      Config
	logger      *slog.Logger
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex connects to a Qdrant server.
func NewIndex(config Config) (*Index, error) {
	if config.Address == "" {
		config.Address = defaultAddress
	}
	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = defaultReadyTimeout
	}

	conn, err := grpc.NewClient(config.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant at %s: %w", config.Address, err)
	}

	return &Index{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		config:      config,
		logger:      slog.Default().With("component", "qdrant-index"),
	}, nil
}

// EnsureNamespace creates the collection if needed and waits for it to
// report green status.
func (x *Index) EnsureNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	exists, err := x.namespaceExists(ctx, namespace)
	if err != nil {
		return err
	}

	if !exists {
		x.logger.Info("creating collection", "namespace", namespace)
		_, err = x.collections.Create(ctx, &qdrantclient.CreateCollection{
			CollectionName: namespace,
			VectorsConfig: &qdrantclient.VectorsConfig{
				Config: &qdrantclient.VectorsConfig_Params{
					Params: &qdrantclient.VectorParams{
						Size:     uint64(core.EmbeddingDimensions),
						Distance: qdrantclient.Distance_Cosine,
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", namespace, err)
		}
	}

	return x.waitUntilReady(ctx, namespace)
}

// DropNamespace deletes the collection. Missing collections are ignored.
func (x *Index) DropNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	exists, err := x.namespaceExists(ctx, namespace)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	x.logger.Info("dropping collection", "namespace", namespace)
	_, err = x.collections.Delete(ctx, &qdrantclient.DeleteCollection{
		CollectionName: namespace,
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", namespace, err)
	}
	return nil
}

// Upsert writes chunks into the collection in bounded batches.
func (x *Index) Upsert(ctx context.Context, namespace string, chunks []core.EmbeddedChunk) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(chunks))

		points := make([]*qdrantclient.PointStruct, 0, end-start)
		for _, chunk := range chunks[start:end] {
			points = append(points, pointFromChunk(chunk))
		}

		_, err := x.points.Upsert(ctx, &qdrantclient.UpsertPoints{
			CollectionName: namespace,
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), namespace, err)
		}

		x.logger.Debug("upserted batch", "namespace", namespace, "points", len(points))
	}

	return nil
}

// Query searches the collection and maps payloads back to matches.
func (x *Index) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]core.Match, error) {
	if namespace == "" {
		return nil, vectorstore.ErrEmptyNamespace
	}
	if topK <= 0 {
		return nil, vectorstore.ErrInvalidTopK
	}

	exists, err := x.namespaceExists(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: namespace %s does not exist", vectorstore.ErrIndexUnready, namespace)
	}

	resp, err := x.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: namespace,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
				Include: &qdrantclient.PayloadIncludeSelector{
					Fields: []string{payloadText, payloadVideoID, payloadTitle, payloadURL},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", namespace, err)
	}

	matches := make([]core.Match, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		match := core.Match{Score: point.GetScore()}
		if v, ok := point.Payload[payloadText]; ok {
			match.Text = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadVideoID]; ok {
			match.SourceVideoID = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadTitle]; ok {
			match.SourceTitle = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadURL]; ok {
			match.SourceURL = v.GetStringValue()
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Close closes the gRPC connection.
func (x *Index) Close() error {
	return x.conn.Close()
}

func (x *Index) namespaceExists(ctx context.Context, namespace string) (bool, error) {
	collections, err := x.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	for _, col := range collections.GetCollections() {
		if col.GetName() == namespace {
			return true, nil
		}
	}
	return false, nil
}

func (x *Index) waitUntilReady(ctx context.Context, namespace string) error {
	deadline := time.Now().Add(x.config.ReadyTimeout)

	for {
		info, err := x.collections.Get(ctx, &qdrantclient.GetCollectionInfoRequest{
			CollectionName: namespace,
		})
		if err == nil && info.GetResult().GetStatus() == qdrantclient.CollectionStatus_Green {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: collection %s", vectorstore.ErrIndexUnready, namespace)
		}

		timer := time.NewTimer(readyPollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func pointFromChunk(chunk core.EmbeddedChunk) *qdrantclient.PointStruct {
	return &qdrantclient.PointStruct{
		Id: &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Num{
				Num: uint64(chunk.Id),
			},
		},
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{
					Data: chunk.Vector,
				},
			},
		},
		Payload: map[string]*qdrantclient.Value{
			payloadText:    {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.Text}},
			payloadVideoID: {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.SourceVideoID}},
			payloadTitle:   {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.SourceTitle}},
			payloadURL:     {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.SourceURL}},
		},
	}
}
