package repository

import (
	"context"
)

type InsertFeedbackInput struct {
	TaskID      string
	UserID      string
	Rubric      []byte
	Band        int
	Strengths   []string
	Issues      []string
	Suggestions []byte
	Prosody     []byte
}

type CreateProfileInput struct {
	UserID      string
	DisplayName string
}

type TaskRepository interface {
	// GetTaskWithPrompt returns the task joined with its prompt text,
	// or (nil, nil) when no such task exists.
	GetTaskWithPrompt(ctx context.Context, taskID string) (*Task, error)

	// MarkProcessing moves a task from recorded to processing. The write is
	// conditional on the current status, so a duplicate invocation for the
	// same task reports false with no side effects.
	MarkProcessing(ctx context.Context, taskID string) (bool, error)

	// CompleteScored writes the transcript and moves the task from
	// processing to scored in a single row update, so a scored task can
	// never be observed with a null transcript.
	CompleteScored(ctx context.Context, taskID, transcript string) error

	MarkError(ctx context.Context, taskID string) error
}

type FeedbackRepository interface {
	InsertFeedback(ctx context.Context, input InsertFeedbackInput) error
	CountFeedbackByTask(ctx context.Context, taskID string) (int, error)
}

type CreditRepository interface {
	// GetProfile returns (nil, nil) when the profile row does not exist.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, input CreateProfileInput) error

	// GrantFreeCredit inserts the single free credit row and flips
	// free_credit_granted in one transaction.
	GrantFreeCredit(ctx context.Context, userID string) error

	AddPurchaseCredits(ctx context.Context, userID string, amount int) error
}

type Repository interface {
	TaskRepository
	FeedbackRepository
	CreditRepository
}
