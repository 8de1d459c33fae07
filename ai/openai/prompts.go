package openai

import (
	"fmt"
	"strings"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
)

const analysisResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "mentions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "string"
          },
          "kind": {
            "type": "string"
          }
        },
        "required": ["text", "kind"],
        "additionalProperties": false
      }
    },
    "sentiment": {
      "type": "number",
      "minimum": -1,
      "maximum": 1
    }
  },
  "required": ["mentions", "sentiment"],
  "additionalProperties": false
}`

const analysisPromptTemplate = `You analyze feedback and observations about schools. Extract every mention of a
person, school subject, or place from the given text, and rate the overall sentiment.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The "text" field must contain the mention exactly as written in the input, including titles like "pan" or "pani".
- The "kind" field must match exactly one of the listed values: %s.
- "person" covers teachers, students, and parents. "subject" covers school subjects. "location" covers regions, towns, and schools.
- "sentiment" is a number from -1 (strongly negative) to 1 (strongly positive). Use 0 for neutral or purely factual text.
- Include only mentions that actually appear in the text. Do not hallucinate.
- If no mentions can be identified, return "mentions": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example (positive feedback about a teacher):
Input: "Pani Novakova vysvetluje matematiku skvele, deti ji maji radi."
Output:
{
  "mentions": [
    {"text":"Pani Novakova","kind":"person"},
    {"text":"matematiku","kind":"subject"}
  ],
  "sentiment": 0.8
}

Example (negative, with a school mention):
Input: "Na ZS Komenskeho chybi ucebnice fyziky uz druhy mesic."
Output:
{
  "mentions": [
    {"text":"ZS Komenskeho","kind":"location"},
    {"text":"fyziky","kind":"subject"}
  ],
  "sentiment": -0.6
}

Example (initials, neutral tone):
Input: "Tridu prevzal p. J. Svoboda."
Output:
{
  "mentions": [
    {"text":"p. J. Svoboda","kind":"person"}
  ],
  "sentiment": 0.0
}

Example (nothing to extract):
Input: "Zaznam byl porizen v utery."
Output:
{
  "mentions": [],
  "sentiment": 0.0
}`

// buildAnalysisPrompt creates the system prompt with mention kinds embedded.
func buildAnalysisPrompt() string {
	return fmt.Sprintf(analysisPromptTemplate,
		analysisResponseSchema,
		strings.Join(ai.MentionKinds, ", "))
}
