package feedback

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the rater instruction for one response. The wording is
// fixed so two identical inputs always produce the same prompt.
func BuildPrompt(input Input) string {
	var b strings.Builder
	b.WriteString(`You are an expert CELPIP speaking rater. Score this response on five dimensions from 1 to 12:

1. Content and Coherence - Organization, relevance, completeness
2. Vocabulary Range and Precision - Word choice, variety, accuracy
3. Grammar and Sentence Control - Sentence structure, accuracy, complexity
4. Pronunciation and Intelligibility - Clarity, accent, stress patterns
5. Fluency and Delivery - Pace, rhythm, naturalness

`)
	fmt.Fprintf(&b, "Task: %s\n", input.TaskPrompt)
	fmt.Fprintf(&b, "Transcript: %s\n", input.Transcript)
	fmt.Fprintf(&b, "Speech Metrics: WPM: %d, Filler Rate: %.1f%%, Avg Sentence Length: %.1f\n",
		input.Prosody.WPM, input.Prosody.FillerRate, input.Prosody.AvgSentenceLength)
	b.WriteString(`
Return JSON with:
- rubric: {content: number, vocabulary: number, grammar: number, pronunciation: number, fluency: number}
- band: overall CELPIP level (1-12)
- strengths: array of 3 specific strengths
- issues: array of 3 specific issues to improve
- suggestions: {connectors: array of 5 useful connectors, starters: array of 5 sentence starters, rewrites: array of 3 grammar improvements with from/to}

Keep suggestions actionable and specific to CELPIP speaking tasks.`)
	return b.String()
}
