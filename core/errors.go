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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidVideoRecord indicates a VideoRecord failed validation.
	ErrInvalidVideoRecord = errors.New("invalid video record")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyVideoID indicates the video ID field is empty.
	ErrEmptyVideoID = errors.New("video id cannot be empty")

	// ErrEmptyVideoURL indicates the video URL field is empty.
	ErrEmptyVideoURL = errors.New("video url cannot be empty")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrEmptyTenantID indicates a tenant identifier is empty
	// or sanitizes to nothing.
	ErrEmptyTenantID = errors.New("tenant id cannot be empty")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid conversation role")

	// ErrMalformedRecord indicates serialized bytes that cannot describe
	// a valid record.
	ErrMalformedRecord = errors.New("malformed record")
)
