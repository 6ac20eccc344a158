package question

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Prompt is a system/user message pair sent to a Provider.
type Prompt struct {
	System string
	User   string
}

// styles nudge the model toward a different angle on each request.
var styles = []string{
	"recent news or trending event",
	"historical fact or milestone",
	"popular culture reference",
	"lesser-known interesting fact",
	"viral moment or controversy",
	"achievement or record",
	"personality or celebrity",
}

const systemPrompt = `You are a trivia question generator for an Indian party quiz game. ` +
	`Generate unique, varied and engaging India-specific questions. Never repeat similar questions. ` +
	`Each question should explore a different aspect of the topic. Always respond with valid JSON only.`

const userPromptTemplate = `Generate a UNIQUE trivia question about %s.

ENSURE VARIETY:
- Question ID: %s
- Focus on: %s
- Explore a different aspect than typical questions on this topic
- Avoid common or obvious questions

CONTEXT: The audience is a group of friends at an Indian party. Keep it relevant, fun and party-appropriate.
For current affairs topics, focus on major recent events in India. For India-specific topics, include cultural context and local flavor.

Respond ONLY with raw JSON in exactly this shape (no markdown, no code fences):
{
  "question": "The question text",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correctIndex": 0,
  "explanation": "A fun fact about the answer"
}

Requirements:
- One clear, unambiguous question with exactly one correct answer
- 4 plausible options
- Randomize the position of the correct answer
- Medium difficulty`

// buildPrompt renders the request for topic. The freshness hint
// "<unix-ms>-<0..999>" and the style hint only reduce repetition.
func buildPrompt(topic string, now time.Time, rng *rand.Rand) Prompt {
	freshness := fmt.Sprintf("%d-%d", now.UnixMilli(), rng.IntN(1000))
	style := styles[rng.IntN(len(styles))]
	return Prompt{
		System: systemPrompt,
		User:   fmt.Sprintf(userPromptTemplate, topic, freshness, style),
	}
}
