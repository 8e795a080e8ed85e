package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingDimensions is the fixed dimensionality of all embedding vectors.
// It is determined by the embedding model; index vectors and query vectors
// must come from the same model version to remain comparable.
const EmbeddingDimensions = 768

// ID is a unique identifier for domain entities.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content produces identical IDs, so re-ingesting the same
// chunk converges on the same vector instead of duplicating it.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// VideoRecord identifies one source video from a creator's catalog.
// Created by the metadata source; immutable.
type VideoRecord struct {
	ID              string
	Title           string
	URL             string
	DurationSeconds int
	ChannelID       string
}

// TranscriptUnit is the transcript of one successfully transcribed video.
// Videos that fail to transcribe simply have no unit; there is no placeholder.
type TranscriptUnit struct {
	VideoID string
	Title   string
	URL     string
	Text    string
}

// Corpus is the ordered sequence of transcript units for one tenant.
// It exists only transiently during a single ingestion run.
type Corpus struct {
	TenantID string
	Units    []TranscriptUnit
}

// Chunk is a fixed-size overlapping window over a single transcript unit.
// Windows never cross video boundaries. SequenceIndex is the insertion order
// of the chunk within its video.
type Chunk struct {
	Id            ID
	SourceVideoID string
	SourceTitle   string
	SourceURL     string
	Text          string
	SequenceIndex int
}

// EmbeddedChunk pairs a chunk with its embedding vector.
// The chunk is embedded so its fields stay addressable on the pair.
type EmbeddedChunk struct {
	Chunk
	Vector []float32
}

// Match is one similarity hit returned by the vector index,
// ordered by descending score.
type Match struct {
	Text          string
	SourceVideoID string
	SourceTitle   string
	SourceURL     string
	Score         float32
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the asking user.
	RoleUser Role = iota + 1
	// RoleAssistant represents the model.
	RoleAssistant
)

// ConversationTurn is one utterance in a resolution request's rolling context.
// Turns are scoped to a single session and never shared across requests.
type ConversationTurn struct {
	Role Role
	Text string
}

// StructuredAnswer is the citation-bearing record extracted from a free-text
// response. When the four citation fields cannot be confidently extracted,
// only Answer is populated. Answer is always present and never empty.
type StructuredAnswer struct {
	Title     string `json:"title,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	VideoURL  string `json:"videoUrl,omitempty"`
	Answer    string `json:"answer"`
}

// Cited reports whether all four citation fields are present.
func (a *StructuredAnswer) Cited() bool {
	return a.Title != "" && a.StartTime != "" && a.EndTime != "" && a.VideoURL != ""
}

// TenantRecord is the per-tenant channel metadata row.
// At most one record exists per tenant id; re-ingestion overwrites it.
type TenantRecord struct {
	TenantID     string
	ChannelTitle string
	ChannelURL   string
	Videos       []VideoRecord
	IngestedAt   time.Time
}
