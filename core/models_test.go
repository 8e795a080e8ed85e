package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "short content",
			content: "v1:0:first window of the transcript",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("v1:0:window")
	id2 := IDFromContent("v1:1:window")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestEmbeddedChunk_PromotesChunkFields(t *testing.T) {
	chunk := Chunk{
		Id:            IDFromContent("v1:0:window"),
		SourceVideoID: "v1",
		SourceTitle:   "Intro to Go",
		SourceURL:     "https://youtu.be/v1",
		Text:          "window",
		SequenceIndex: 0,
	}
	embedded := EmbeddedChunk{Chunk: chunk, Vector: []float32{0.1, 0.2}}

	if embedded.Id != chunk.Id {
		t.Errorf("promoted Id = %d, want %d", embedded.Id, chunk.Id)
	}
	if embedded.Text != "window" {
		t.Errorf("promoted Text = %q, want %q", embedded.Text, "window")
	}
	if embedded.SourceVideoID != "v1" || embedded.SourceTitle != "Intro to Go" || embedded.SourceURL != "https://youtu.be/v1" {
		t.Errorf("promoted source fields = %q/%q/%q", embedded.SourceVideoID, embedded.SourceTitle, embedded.SourceURL)
	}
}

func TestStructuredAnswer_Cited(t *testing.T) {
	tests := []struct {
		name   string
		answer StructuredAnswer
		want   bool
	}{
		{
			name: "all citation fields present",
			answer: StructuredAnswer{
				Title:     "Intro to Go",
				StartTime: "00:01:30",
				EndTime:   "00:02:10",
				VideoURL:  "https://youtu.be/v1",
				Answer:    "Use goroutines.",
			},
			want: true,
		},
		{
			name: "answer only",
			answer: StructuredAnswer{
				Answer: "I don't know.",
			},
			want: false,
		},
		{
			name: "partial citation",
			answer: StructuredAnswer{
				Title:    "Intro to Go",
				VideoURL: "https://youtu.be/v1",
				Answer:   "Use goroutines.",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.answer.Cited(); got != tt.want {
				t.Errorf("Cited() = %v, want %v", got, tt.want)
			}
		})
	}
}
