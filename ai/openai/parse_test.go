package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredAnswer_Strict(t *testing.T) {
	output := `{"title":"Recursion Basics","startTime":"4:20","endTime":"9:05","videoUrl":"https://youtu.be/abc","answer":"Recursion is a function calling itself."}`

	answer, ok := ParseStructuredAnswer(output, "original")
	require.True(t, ok)
	assert.Equal(t, "Recursion Basics", answer.Title)
	assert.Equal(t, "4:20", answer.StartTime)
	assert.Equal(t, "9:05", answer.EndTime)
	assert.Equal(t, "https://youtu.be/abc", answer.VideoURL)
	assert.Equal(t, "Recursion is a function calling itself.", answer.Answer)
	assert.True(t, answer.Cited())
}

func TestParseStructuredAnswer_SurroundingNoise(t *testing.T) {
	output := `noise {"title":"A","startTime":"0:00","endTime":"1:00","videoUrl":"u","answer":"x"} trailing`

	answer, ok := ParseStructuredAnswer(output, "original")
	require.True(t, ok)
	assert.Equal(t, "A", answer.Title)
	assert.Equal(t, "0:00", answer.StartTime)
	assert.Equal(t, "1:00", answer.EndTime)
	assert.Equal(t, "u", answer.VideoURL)
	assert.Equal(t, "x", answer.Answer)
}

func TestParseStructuredAnswer_MarkdownFences(t *testing.T) {
	output := "```json\n{\"answer\":\"plain answer\"}\n```"

	answer, ok := ParseStructuredAnswer(output, "original")
	require.True(t, ok)
	assert.Equal(t, "plain answer", answer.Answer)
	assert.False(t, answer.Cited())
}

func TestParseStructuredAnswer_PartialCitationDropped(t *testing.T) {
	// Missing endTime and videoUrl: the record must degrade to answer-only.
	output := `{"title":"A","startTime":"0:00","answer":"x"}`

	answer, ok := ParseStructuredAnswer(output, "original")
	require.True(t, ok)
	assert.False(t, answer.Cited())
	assert.Empty(t, answer.Title)
	assert.Empty(t, answer.StartTime)
	assert.Equal(t, "x", answer.Answer)
}

func TestParseStructuredAnswer_Fallback(t *testing.T) {
	output := `this is not json at all, not even a little`

	answer, ok := ParseStructuredAnswer(output, "the original free-text answer")
	assert.False(t, ok)
	assert.Equal(t, "the original free-text answer", answer.Answer)
	assert.False(t, answer.Cited())
}

func TestParseStructuredAnswer_EmptyAnswerFieldUsesOriginal(t *testing.T) {
	output := `{"answer":""}`

	answer, ok := ParseStructuredAnswer(output, "original text")
	require.True(t, ok)
	assert.Equal(t, "original text", answer.Answer)
}

func TestRepairJSON_UnquotedKey(t *testing.T) {
	broken := `{"title":"A", videoUrl":"u"}`
	fixed := repairJSON(broken)
	assert.Equal(t, `{"title":"A", "videoUrl":"u"}`, fixed)
}

func TestRepairJSON_WellFormedUntouched(t *testing.T) {
	wellFormed := `{"title":"A","answer":"x"}`
	assert.Equal(t, wellFormed, repairJSON(wellFormed))
}
