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


package ingestion

import (
	"fmt"

	"github.com/openclass/tutorbot/core"
)

const (
	// ChunkWindow is the sliding-window size in characters.
	ChunkWindow = 1000

	// ChunkOverlap is how many characters consecutive chunks share.
	ChunkOverlap = 200
)

// ChunkCorpus splits every unit of the corpus into overlapping chunks.
// Windows never span unit boundaries, so a chunk always belongs to exactly
// one video.
func ChunkCorpus(corpus core.Corpus) []core.Chunk {
	var chunks []core.Chunk
	for _, unit := range corpus.Units {
		chunks = append(chunks, chunkUnit(unit)...)
	}
	return chunks
}

// chunkUnit slides a fixed window over the unit text. Chunk IDs are derived
// from content, so re-running ingestion over unchanged text produces the
// same IDs and upserts converge instead of accumulating.
func chunkUnit(unit core.TranscriptUnit) []core.Chunk {
	text := []rune(UnitText(unit))

	var chunks []core.Chunk
	step := ChunkWindow - ChunkOverlap
	for start, seq := 0, 0; start < len(text); start, seq = start+step, seq+1 {
		end := min(start+ChunkWindow, len(text))
		chunkText := string(text[start:end])

		chunks = append(chunks, core.Chunk{
			Id:            chunkID(unit.VideoID, seq, chunkText),
			SourceVideoID: unit.VideoID,
			SourceTitle:   unit.Title,
			SourceURL:     unit.URL,
			Text:          chunkText,
			SequenceIndex: seq,
		})

		if end == len(text) {
			break
		}
	}
	return chunks
}

func chunkID(videoID string, seq int, text string) core.ID {
	return core.IDFromContent(fmt.Sprintf("%s:%d:%s", videoID, seq, text))
}
