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
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/openclass/tutorbot/core"
)

const (
	defaultYTDLPBin   = "yt-dlp"
	defaultWhisperBin = "whisper"
	defaultModel      = "base"
)

// ToolConfig configures the external yt-dlp and whisper binaries.
type ToolConfig struct {
	// YTDLPBin is the yt-dlp executable. Defaults to "yt-dlp" on PATH.
	YTDLPBin string

	// WhisperBin is the whisper executable. Defaults to "whisper" on PATH.
	WhisperBin string

	// Model selects the whisper model. Defaults to "base".
	Model string
}

// runCommand executes an external tool. Swapped out in tests.
type runCommand func(ctx context.Context, name string, args ...string) error

// ToolTranscriber implements Transcriber with yt-dlp for audio download and
// whisper for speech-to-text, both invoked as subprocesses.
type ToolTranscriber struct {
	config    ToolConfig
	workspace *Workspace
	run       runCommand
	logger    *slog.Logger
}

var _ Transcriber = (*ToolTranscriber)(nil)

// NewToolTranscriber creates a transcriber using external tools and the
// given scratch workspace.
func NewToolTranscriber(config ToolConfig, workspace *Workspace) (*ToolTranscriber, error) {
	if workspace == nil {
		return nil, fmt.Errorf("tool transcriber: workspace cannot be nil")
	}
	if config.YTDLPBin == "" {
		config.YTDLPBin = defaultYTDLPBin
	}
	if config.WhisperBin == "" {
		config.WhisperBin = defaultWhisperBin
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	return &ToolTranscriber{
		config:    config,
		workspace: workspace,
		run:       runExec,
		logger:    slog.Default().With("component", "tool-transcriber"),
	}, nil
}

// Transcribe downloads the video's audio as mp3 and runs whisper over it,
// returning the transcript text.
func (t *ToolTranscriber) Transcribe(ctx context.Context, video core.VideoRecord) (string, error) {
	baseName := BaseName(video.Title, video.ID)
	audioPath := t.workspace.AudioPath(baseName)

	t.logger.Info("downloading audio", "video", video.ID)
	err := t.run(ctx, t.config.YTDLPBin,
		"-x",
		"--audio-format", "mp3",
		"-o", audioPath,
		video.URL,
	)
	if err != nil {
		return "", fmt.Errorf("%w: video %s: %w", ErrDownloadFailed, video.ID, err)
	}

	t.logger.Info("transcribing audio", "video", video.ID, "model", t.config.Model)
	err = t.run(ctx, t.config.WhisperBin,
		audioPath,
		"--model", t.config.Model,
		"--output_format", "txt",
		"--output_dir", t.workspace.TranscriptDir(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: video %s: %w", ErrTranscriptionFailed, video.ID, err)
	}

	text, err := os.ReadFile(t.workspace.TranscriptPath(baseName))
	if err != nil {
		return "", fmt.Errorf("%w: video %s: %w", ErrTranscriptionFailed, video.ID, err)
	}

	transcript := strings.TrimSpace(string(text))
	if transcript == "" {
		return "", fmt.Errorf("%w: video %s: empty transcript", ErrTranscriptionFailed, video.ID)
	}
	return transcript, nil
}

func runExec(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, truncateOutput(output))
	}
	return nil
}

// truncateOutput keeps error messages readable when a tool dumps a lot of
// text before failing.
func truncateOutput(output []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(output))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
