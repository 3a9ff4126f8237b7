package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParsePayload decodes a model completion into a Payload. Models wrap JSON
// in prose or code fences often enough that the object substring is
// extracted before decoding.
func ParsePayload(content []byte) (Payload, error) {
	start := bytes.IndexByte(content, '{')
	end := bytes.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return Payload{}, fmt.Errorf("no JSON object in model output")
	}

	var p Payload
	if err := json.Unmarshal(content[start:end+1], &p); err != nil {
		return Payload{}, fmt.Errorf("decode feedback payload: %w", err)
	}
	if err := validatePayload(p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

func validatePayload(p Payload) error {
	scores := map[string]int{
		"content":       p.Rubric.Content,
		"vocabulary":    p.Rubric.Vocabulary,
		"grammar":       p.Rubric.Grammar,
		"pronunciation": p.Rubric.Pronunciation,
		"fluency":       p.Rubric.Fluency,
		"band":          p.Band,
	}
	for name, score := range scores {
		if score < BandMin || score > BandMax {
			return fmt.Errorf("%s score %d outside %d-%d", name, score, BandMin, BandMax)
		}
	}
	if len(p.Strengths) == 0 || len(p.Issues) == 0 {
		return fmt.Errorf("strengths and issues must not be empty")
	}
	return nil
}

// FallbackPayload is the fixed substitute used when the provider answers
// successfully but its content cannot be parsed. The user still receives
// usable feedback instead of an error state.
func FallbackPayload() Payload {
	return Payload{
		Rubric:    Rubric{Content: 6, Vocabulary: 6, Grammar: 6, Pronunciation: 6, Fluency: 6},
		Band:      6,
		Strengths: []string{"Clear communication", "Good structure", "Appropriate vocabulary"},
		Issues:    []string{"Some hesitation", "Minor grammar errors", "Could use more connectors"},
		Suggestions: Suggestions{
			Connectors: []string{"First of all", "Moreover", "However", "As a result", "In conclusion"},
			Starters:   []string{"In my view", "I believe that", "From my experience", "It seems to me", "I would suggest"},
			Rewrites: []Rewrite{
				{From: "I think it good", To: "I think it is good because"},
				{From: "It very important", To: "It is very important to"},
				{From: "I can do it", To: "I am able to do it"},
			},
		},
		Fallback: true,
	}
}
