package prosody

import (
	"math"
	"strings"
)

// placeholderPauseMS stands in for real pause timing; the transcript alone
// carries no audio timing data, so callers must treat it as low-confidence.
const placeholderPauseMS = 500

var fillerLexicon = []string{"um", "uh", "like", "you know", "so", "well"}

type Metrics struct {
	WPM               int     `json:"wpm"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	FillerRate        float64 `json:"filler_rate"`
	AvgPauseMS        int     `json:"avg_pause_ms"`
}

// Analyze derives delivery metrics from a transcript. speakSeconds is the
// task's configured speaking time, not a fixed constant: two tasks with the
// same transcript but different time limits score different speech rates.
func Analyze(transcript string, speakSeconds int) Metrics {
	words := strings.Fields(transcript)
	sentences := splitSentences(transcript)

	m := Metrics{AvgPauseMS: placeholderPauseMS}
	if len(words) == 0 {
		return m
	}

	if speakSeconds > 0 {
		m.WPM = int(math.Round(float64(len(words)) * 60 / float64(speakSeconds)))
	}
	if len(sentences) > 0 {
		m.AvgSentenceLength = roundOneDecimal(float64(len(words)) / float64(len(sentences)))
	}
	m.FillerRate = roundOneDecimal(float64(countFillers(words)) / float64(len(words)) * 100)
	return m
}

func splitSentences(transcript string) []string {
	segments := strings.FieldsFunc(transcript, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var out []string
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func countFillers(words []string) int {
	count := 0
	for _, w := range words {
		lower := strings.ToLower(w)
		for _, filler := range fillerLexicon {
			if strings.Contains(lower, filler) {
				count++
				break
			}
		}
	}
	return count
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
