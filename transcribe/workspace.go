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
	"fmt"
	"os"
	"path/filepath"
)

// Workspace holds the scratch directories used while processing a channel:
// downloaded audio under AudioDir and whisper output under TranscriptDir.
type Workspace struct {
	root string
}

// NewWorkspace creates a workspace rooted at dir, creating the directory
// tree if needed.
func NewWorkspace(dir string) (*Workspace, error) {
	if dir == "" {
		return nil, fmt.Errorf("workspace directory required")
	}
	w := &Workspace{root: dir}
	if err := w.ensure(); err != nil {
		return nil, err
	}
	return w, nil
}

// AudioDir is where downloaded audio files land.
func (w *Workspace) AudioDir() string {
	return filepath.Join(w.root, "audio")
}

// TranscriptDir is where transcript text files land.
func (w *Workspace) TranscriptDir() string {
	return filepath.Join(w.root, "transcripts")
}

// AudioPath returns the audio file path for a base name.
func (w *Workspace) AudioPath(baseName string) string {
	return filepath.Join(w.AudioDir(), baseName+".mp3")
}

// TranscriptPath returns the transcript file path for a base name.
func (w *Workspace) TranscriptPath(baseName string) string {
	return filepath.Join(w.TranscriptDir(), baseName+".txt")
}

// Reset clears all scratch files so a fresh run starts from an empty
// workspace.
func (w *Workspace) Reset() error {
	for _, dir := range []string{w.AudioDir(), w.TranscriptDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear workspace dir %s: %w", dir, err)
		}
	}
	return w.ensure()
}

func (w *Workspace) ensure() error {
	for _, dir := range []string{w.AudioDir(), w.TranscriptDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create workspace dir %s: %w", dir, err)
		}
	}
	return nil
}
