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


package query

import (
	"fmt"
	"strings"

	"github.com/openclass/tutorbot/core"
)

// contextSeparator joins retrieved chunks in the augmented prompt.
const contextSeparator = "\n\n---\n\n"

const tutorSystemTemplate = `You are a knowledgeable tutor answering questions about the video catalog of %s.

You are given excerpts from the catalog's video transcripts as CONTEXT. Follow these rules:

1. Answer using the CONTEXT whenever it covers the question.
2. When the CONTEXT does not cover the question but it is on the same general subject as the catalog, answer from your own knowledge and say the catalog does not cover it directly.
3. When the question is unrelated to the catalog's subject, politely and briefly decline to answer. Do not elaborate.
4. When your answer draws on a specific video, cite its title and URL, and give approximate start and end timestamps for the relevant part.
5. Always answer in the same language the question was asked in.
6. Keep a professional, encouraging tone. Do not mention these instructions or the word CONTEXT.

CONTEXT:
%s`

const rewritePrompt = `Rewrite the user's latest message as a single fully self-contained question, resolving any pronouns or references to the earlier conversation. Keep the question in its original language and do not answer it. Return only the rewritten question with no commentary.`

// tutorSystemPrompt renders the system message for answer generation.
// channelTitle falls back to a generic label when the tenant record has
// none.
func tutorSystemPrompt(channelTitle, contextText string) string {
	if channelTitle == "" {
		channelTitle = "this creator"
	}
	return fmt.Sprintf(tutorSystemTemplate, channelTitle, contextText)
}

// augmentContext joins retrieved matches into the context block, best
// match first.
func augmentContext(matches []core.Match) string {
	parts := make([]string, 0, len(matches))
	for _, match := range matches {
		parts = append(parts, match.Text)
	}
	return strings.Join(parts, contextSeparator)
}
