package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/matchmaker/ai"
)

const redactionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "redacted_text": {"type": "string", "minLength": 1},
    "pii_removed": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["redacted_text", "pii_removed"],
  "additionalProperties": false
}`

const redactionPromptTemplate = `Remove personally identifying information from the user's profile text and return JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Remove every instance of these classes: %s.
- Replace each removed span with its class in square brackets, e.g. [email].
- Keep everything else exactly as written, including interests, hobbies and tone.
- Do not summarize, translate or rephrase.
- List each class you removed once in "pii_removed". If nothing was removed, return "pii_removed": [].

Example:
Input: "I'm Priya Sharma, reach me at priya@example.com. I love bouldering and filter coffee."
Output:
{"redacted_text":"I'm [full_name], reach me at [email]. I love bouldering and filter coffee.","pii_removed":["full_name","email"]}`

const safetyPromptTemplate = `Rate how toxic, harassing, sexual, hateful or otherwise unsafe the given message is
for posting in a public community channel, and return JSON.

Output ONLY valid JSON of the form {"toxicity": <number>}. The number must be between 0.0 (completely safe)
and 1.0 (certainly unsafe). Do not include any other keys or text.

Examples:
Input: "Welcome Sam! @alice also loves trail running, you two should meet."
Output: {"toxicity": 0.02}

Input: "Nobody here wants you, go away."
Output: {"toxicity": 0.91}`

const composeSystemPrompt = `You write short, warm welcome messages for members joining an online interest community.

Rules:
- Write at most %d sentences.
- Write plain text only: no markdown, no lists, no quotes around the message.
- If any context line starts with "@", mention at least one of those members by their exact handle.
- Never invent personal details that are not in the context.`

// buildRedactionPrompt creates the redaction system prompt with PII classes embedded.
func buildRedactionPrompt() string {
	return fmt.Sprintf(redactionPromptTemplate,
		redactionResponseSchema,
		strings.Join(ai.PIIClasses, ", "))
}

// buildComposePrompt creates the composer system prompt.
func buildComposePrompt(maxSentences int) string {
	return fmt.Sprintf(composeSystemPrompt, maxSentences)
}

// buildComposeRequest joins the instruction and its context lines.
func buildComposeRequest(prompt string, contextDocs []string) string {
	var b strings.Builder
	b.WriteString(prompt)
	if len(contextDocs) > 0 {
		b.WriteString("\n\nContext:\n")
		for _, doc := range contextDocs {
			b.WriteString("- ")
			b.WriteString(normalizeInput(doc))
			b.WriteString("\n")
		}
	}
	return b.String()
}
