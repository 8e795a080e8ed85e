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

import "errors"

var (
	// ErrIndexUnready indicates a namespace is not servable: it has not
	// been ingested yet or did not become ready in time.
	ErrIndexUnready = errors.New("vector index not ready")

	// ErrEmptyNamespace indicates an operation was given an empty namespace.
	ErrEmptyNamespace = errors.New("namespace cannot be empty")

	// ErrInvalidTopK indicates a query asked for a non-positive result count.
	ErrInvalidTopK = errors.New("topK must be positive")
)
