package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/speakband/speakband/internal/prosody"
)

const (
	BandMin = 1
	BandMax = 12
)

type Rubric struct {
	Content       int `json:"content"`
	Vocabulary    int `json:"vocabulary"`
	Grammar       int `json:"grammar"`
	Pronunciation int `json:"pronunciation"`
	Fluency       int `json:"fluency"`
}

type Rewrite struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Suggestions struct {
	Connectors []string  `json:"connectors"`
	Starters   []string  `json:"starters"`
	Rewrites   []Rewrite `json:"rewrites"`
}

// Payload is the structured scoring result. Fallback indicates the fixed
// default payload was substituted for unparsable model output.
type Payload struct {
	Rubric      Rubric      `json:"rubric"`
	Band        int         `json:"band"`
	Strengths   []string    `json:"strengths"`
	Issues      []string    `json:"issues"`
	Suggestions Suggestions `json:"suggestions"`
	Fallback    bool        `json:"-"`
}

type Input struct {
	TaskPrompt string
	Transcript string
	Prosody    prosody.Metrics
	TaskType   int
}

// GenerationError is a transport-level failure of the scoring provider.
// It aborts the pipeline; only parse failures are absorbed via the fallback.
type GenerationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feedback generation failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("feedback generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func AsGenerationError(err error) (*GenerationError, bool) {
	var ge *GenerationError
	ok := errors.As(err, &ge)
	return ge, ok
}

// Generator produces a rubric-based score for one spoken response.
type Generator interface {
	Generate(ctx context.Context, input Input) (Payload, error)
}
