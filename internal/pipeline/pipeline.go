package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/speakband/speakband/internal/feedback"
	"github.com/speakband/speakband/internal/prosody"
	"github.com/speakband/speakband/internal/repository"
	"github.com/speakband/speakband/internal/transcriber"
)

// Pipeline scores one recorded speaking task: transcribe, analyze delivery,
// generate rubric feedback, persist. Steps run strictly in sequence; each
// external call receives the request context. Provider failures are never
// retried here: the task lands in the error state and the caller decides
// whether to resubmit.
type Pipeline struct {
	repo        repository.Repository
	transcriber transcriber.Transcriber
	generator   feedback.Generator
}

func New(repo repository.Repository, stt transcriber.Transcriber, gen feedback.Generator) *Pipeline {
	return &Pipeline{repo: repo, transcriber: stt, generator: gen}
}

func (p *Pipeline) Process(ctx context.Context, taskID, audioURL string) error {
	log := slog.With("task_id", taskID)

	task, err := p.repo.GetTaskWithPrompt(ctx, taskID)
	if err != nil {
		return &PersistenceError{Op: "load task", Err: err}
	}
	if task == nil {
		return ErrTaskNotFound
	}

	// Conditional write doubles as the duplicate-invocation guard: two
	// calls for the same task can never both observe status=recorded.
	moved, err := p.repo.MarkProcessing(ctx, taskID)
	if err != nil {
		return &PersistenceError{Op: "mark processing", Err: err}
	}
	if !moved {
		log.Warn("rejecting invocation for task outside recorded state", "status", task.Status)
		return ErrInvalidState
	}
	log.Info("task moved to processing", "task_type", task.TaskType, "user_id", task.UserID)

	transcript, err := p.transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		p.markError(ctx, taskID, "transcription")
		return fmt.Errorf("transcription: %w", err)
	}
	log.Info("transcription completed", "transcript_chars", len(transcript))

	metrics := prosody.Analyze(transcript, task.SpeakSeconds)
	log.Info("prosody analyzed", "wpm", metrics.WPM, "filler_rate", metrics.FillerRate)

	payload, err := p.generator.Generate(ctx, feedback.Input{
		TaskPrompt: task.PromptText,
		Transcript: transcript,
		Prosody:    metrics,
		TaskType:   task.TaskType,
	})
	if err != nil {
		p.markError(ctx, taskID, "generation")
		return fmt.Errorf("generation: %w", err)
	}
	if payload.Fallback {
		log.Warn("model output unparsable; fallback feedback substituted")
	}

	if err := p.repo.CompleteScored(ctx, taskID, transcript); err != nil {
		p.markError(ctx, taskID, "complete scored")
		return &PersistenceError{Op: "complete scored", Err: err}
	}

	insert, err := buildFeedbackInsert(task, payload, metrics)
	if err != nil {
		compensated := p.markError(ctx, taskID, "encode feedback")
		return &PersistenceError{Op: "encode feedback", Compensated: compensated, Err: err}
	}
	if err := p.repo.InsertFeedback(ctx, insert); err != nil {
		// The scored write already landed. Single best-effort compensation;
		// success is never claimed while a scored task has no feedback row.
		compensated := p.markError(ctx, taskID, "insert feedback")
		return &PersistenceError{Op: "insert feedback", Compensated: compensated, Err: err}
	}

	log.Info("task scored", "band", payload.Band, "fallback", payload.Fallback)
	return nil
}

func (p *Pipeline) markError(ctx context.Context, taskID, failedStep string) bool {
	if err := p.repo.MarkError(ctx, taskID); err != nil {
		slog.Error("failed to move task to error state", "task_id", taskID, "failed_step", failedStep, "error", err)
		return false
	}
	return true
}

func buildFeedbackInsert(task *repository.Task, payload feedback.Payload, metrics prosody.Metrics) (repository.InsertFeedbackInput, error) {
	rubric, err := json.Marshal(payload.Rubric)
	if err != nil {
		return repository.InsertFeedbackInput{}, fmt.Errorf("marshal rubric: %w", err)
	}
	suggestions, err := json.Marshal(payload.Suggestions)
	if err != nil {
		return repository.InsertFeedbackInput{}, fmt.Errorf("marshal suggestions: %w", err)
	}
	prosodyJSON, err := json.Marshal(metrics)
	if err != nil {
		return repository.InsertFeedbackInput{}, fmt.Errorf("marshal prosody: %w", err)
	}
	return repository.InsertFeedbackInput{
		TaskID:      task.ID,
		UserID:      task.UserID,
		Rubric:      rubric,
		Band:        payload.Band,
		Strengths:   payload.Strengths,
		Issues:      payload.Issues,
		Suggestions: suggestions,
		Prosody:     prosodyJSON,
	}, nil
}
