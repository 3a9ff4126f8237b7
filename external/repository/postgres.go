package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/speakband/speakband/internal/repository"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetTaskWithPrompt(ctx context.Context, taskID string) (*repository.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT t.id, t.session_id, t.user_id, t.task_type, t.prompt_id,
		        COALESCE(p.text, ''), t.prep_seconds, t.speak_seconds,
		        t.audio_path, t.transcript, t.status, t.created_at
		 FROM tasks t
		 LEFT JOIN prompts p ON p.id = t.prompt_id
		 WHERE t.id = $1`,
		taskID)
	var t repository.Task
	err := row.Scan(&t.ID, &t.SessionID, &t.UserID, &t.TaskType, &t.PromptID,
		&t.PromptText, &t.PrepSeconds, &t.SpeakSeconds,
		&t.AudioPath, &t.Transcript, &t.Status, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) MarkProcessing(ctx context.Context, taskID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = 'processing' WHERE id = $1 AND status = 'recorded'`,
		taskID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) CompleteScored(ctx context.Context, taskID, transcript string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = 'scored', transcript = $2 WHERE id = $1 AND status = 'processing'`,
		taskID, transcript)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("task %s is not in processing state", taskID)
	}
	return nil
}

func (r *PostgresRepository) MarkError(ctx context.Context, taskID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = 'error' WHERE id = $1`,
		taskID)
	return err
}

func (r *PostgresRepository) InsertFeedback(ctx context.Context, input repository.InsertFeedbackInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO feedback (task_id, user_id, rubric, band, strengths, issues, suggestions, prosody)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		input.TaskID, input.UserID, input.Rubric, input.Band,
		input.Strengths, input.Issues, input.Suggestions, input.Prosody)
	return err
}

func (r *PostgresRepository) CountFeedbackByTask(ctx context.Context, taskID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM feedback WHERE task_id = $1`,
		taskID).Scan(&count)
	return count, err
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*repository.Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT user_id, display_name, free_credit_granted, created_at
		 FROM profiles WHERE user_id = $1`,
		userID)
	var p repository.Profile
	err := row.Scan(&p.UserID, &p.DisplayName, &p.FreeCreditGranted, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, input repository.CreateProfileInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, display_name, free_credit_granted)
		 VALUES ($1, $2, FALSE)
		 ON CONFLICT (user_id) DO NOTHING`,
		input.UserID, input.DisplayName)
	return err
}

func (r *PostgresRepository) GrantFreeCredit(ctx context.Context, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// The flag flip is conditional so two concurrent grants cannot both
	// insert a credit row.
	tag, err := tx.Exec(ctx,
		`UPDATE profiles SET free_credit_granted = TRUE
		 WHERE user_id = $1 AND free_credit_granted = FALSE`,
		userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("free credit already granted for user %s", userID)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO credits (user_id, source, remaining) VALUES ($1, 'free', 1)`,
		userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) AddPurchaseCredits(ctx context.Context, userID string, amount int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO credits (user_id, source, remaining) VALUES ($1, 'purchase', $2)`,
		userID, amount)
	return err
}
