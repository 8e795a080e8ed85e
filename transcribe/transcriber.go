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


package transcribe

import (
	"context"
	"errors"
	"strings"

	"github.com/openclass/tutorbot/core"
)

var (
	// ErrDownloadFailed indicates the audio for a video could not be fetched.
	ErrDownloadFailed = errors.New("audio download failed")

	// ErrTranscriptionFailed indicates speech-to-text produced no usable output.
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// Transcriber turns a single video into transcript text.
type Transcriber interface {
	// Transcribe downloads the video's audio and converts it to text.
	Transcribe(ctx context.Context, video core.VideoRecord) (string, error)
}

const (
	maxBaseNameLength = 40
)

// BaseName derives a filesystem-safe name for a video's working files.
// Characters outside [A-Za-z0-9] become underscores, the result is
// truncated, and the video ID is appended so names stay unique even when
// titles collide.
func BaseName(title, videoID string) string {
	var b strings.Builder
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	name := b.String()
	if len(name) > maxBaseNameLength {
		name = name[:maxBaseNameLength]
	}
	return name + "_" + videoID
}
