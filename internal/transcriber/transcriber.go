package transcriber

import (
	"context"
	"errors"
	"fmt"
)

// Stage identifies which leg of the transcription call chain failed.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageProvider Stage = "provider"
	StageDecode   Stage = "decode"
)

// Error is a transcription failure with the upstream status and message
// attached. The transcriber never retries; retry policy belongs to callers.
type Error struct {
	Stage      Stage
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transcription %s failed (status %d): %s", e.Stage, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("transcription %s failed: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func AsError(err error) (*Error, bool) {
	var te *Error
	ok := errors.As(err, &te)
	return te, ok
}

// Transcriber converts a stored audio reference into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}
