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


package vectorstore

import (
	"context"

	"github.com/openclass/tutorbot/core"
)

// Index stores embedded chunks grouped by namespace and answers
// similarity queries over a single namespace.
type Index interface {
	// EnsureNamespace creates the namespace if it does not exist and
	// blocks until it can serve reads and writes.
	EnsureNamespace(ctx context.Context, namespace string) error

	// DropNamespace removes the namespace and everything in it.
	// Dropping a namespace that does not exist is not an error.
	DropNamespace(ctx context.Context, namespace string) error

	// Upsert writes chunks into the namespace. A chunk with an ID already
	// present replaces the stored chunk.
	Upsert(ctx context.Context, namespace string, chunks []core.EmbeddedChunk) error

	// Query returns up to topK chunks most similar to the vector, best
	// first.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]core.Match, error)

	// Close releases the index's resources.
	Close() error
}
