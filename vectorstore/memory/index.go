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


package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/openclass/tutorbot/core"
	"github.com/openclass/tutorbot/vectorstore"
)

// Index is an in-process vector index with cosine similarity, keyed by
// namespace then chunk ID. It is safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]map[core.ID]core.EmbeddedChunk
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		namespaces: make(map[string]map[core.ID]core.EmbeddedChunk),
	}
}

func (x *Index) EnsureNamespace(_ context.Context, namespace string) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.namespaces[namespace]; !ok {
		x.namespaces[namespace] = make(map[core.ID]core.EmbeddedChunk)
	}
	return nil
}

func (x *Index) DropNamespace(_ context.Context, namespace string) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.namespaces, namespace)
	return nil
}

func (x *Index) Upsert(_ context.Context, namespace string, chunks []core.EmbeddedChunk) error {
	if namespace == "" {
		return vectorstore.ErrEmptyNamespace
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	ns, ok := x.namespaces[namespace]
	if !ok {
		ns = make(map[core.ID]core.EmbeddedChunk)
		x.namespaces[namespace] = ns
	}
	for _, chunk := range chunks {
		ns[chunk.Id] = chunk
	}
	return nil
}

func (x *Index) Query(_ context.Context, namespace string, vector []float32, topK int) ([]core.Match, error) {
	if namespace == "" {
		return nil, vectorstore.ErrEmptyNamespace
	}
	if topK <= 0 {
		return nil, vectorstore.ErrInvalidTopK
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	ns, ok := x.namespaces[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: namespace %s does not exist", vectorstore.ErrIndexUnready, namespace)
	}
	matches := make([]core.Match, 0, len(ns))
	for _, chunk := range ns {
		matches = append(matches, core.Match{
			Text:          chunk.Text,
			SourceVideoID: chunk.SourceVideoID,
			SourceTitle:   chunk.SourceTitle,
			SourceURL:     chunk.SourceURL,
			Score:         cosineSimilarity(vector, chunk.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (x *Index) Close() error {
	return nil
}

// Count reports how many chunks a namespace holds. Test helper.
func (x *Index) Count(namespace string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.namespaces[namespace])
}

// HasNamespace reports whether the namespace exists. Test helper.
func (x *Index) HasNamespace(namespace string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.namespaces[namespace]
	return ok
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
