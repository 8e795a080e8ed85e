package openai

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title": {
      "type": "string"
    },
    "startTime": {
      "type": "string"
    },
    "endTime": {
      "type": "string"
    },
    "videoUrl": {
      "type": "string"
    },
    "answer": {
      "type": "string"
    }
  },
  "required": ["answer"],
  "additionalProperties": false
}`

const extractionPrompt = `You are given the text of an assistant's answer about a video catalog. Decide whether
it contains ALL FOUR of: a video title, a start timestamp, an end timestamp, and a video URL.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + extractionResponseSchema + `

Rules:
- If all four citation fields are present, return them in "title", "startTime", "endTime" and
  "videoUrl", and return the remaining prose (with those fields removed) in "answer".
- If ANY of the four fields is missing or uncertain, return ONLY {"answer": <the full original text>}.
- Timestamps keep their original formatting (for example "12:35" or "1:02:10").
- Never invent a title, timestamp or URL that is not in the text.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example (all fields present):
Input: "The recursion walkthrough starts at 4:20 and ends at 9:05 in \"Recursion Basics\" (https://youtu.be/abc). Recursion is a function calling itself."
Output:
{
  "title": "Recursion Basics",
  "startTime": "4:20",
  "endTime": "9:05",
  "videoUrl": "https://youtu.be/abc",
  "answer": "Recursion is a function calling itself."
}

Example (citation missing):
Input: "I could not find the answer in the provided videos."
Output:
{
  "answer": "I could not find the answer in the provided videos."
}`
