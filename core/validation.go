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

import "fmt"

// ValidateVideoRecord validates a VideoRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - URL must not be empty
//
// NOT validated:
//   - Title (some upstream listings omit titles; the transcriber falls back
//     to the video id for artifact naming)
//   - DurationSeconds (zero is valid for listings that omit duration)
func ValidateVideoRecord(record *VideoRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVideoRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVideoRecord, ErrEmptyVideoID)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVideoRecord, ErrEmptyVideoURL)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourceVideoID must not be empty
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.SourceVideoID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyVideoID)
	}

	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}
