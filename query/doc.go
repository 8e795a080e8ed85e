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


// Package query answers questions over a tenant's ingested catalog.
//
// The Resolver type implements the retrieval-augmented answer flow:
//   - Rewriting follow-up questions into standalone ones
//   - Embedding the question and retrieving the most similar chunks
//   - Generating an answer grounded in the retrieved context
//   - Extracting the answer's structured form with citations
//
// Conversation history lives in per-asker Session values, so concurrent
// conversations never share context.
package query
