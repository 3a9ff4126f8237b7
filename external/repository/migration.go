package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE task_status AS ENUM ('recorded', 'processing', 'scored', 'error'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN CREATE TYPE credit_source AS ENUM ('free', 'purchase'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		free_credit_granted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS prompts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		task_type INTEGER NOT NULL CHECK (task_type BETWEEN 1 AND 8),
		text TEXT NOT NULL,
		difficulty INTEGER NOT NULL DEFAULT 3,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		locale TEXT NOT NULL DEFAULT 'en-CA',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
		mode TEXT NOT NULL DEFAULT 'single',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
		task_type INTEGER NOT NULL CHECK (task_type BETWEEN 1 AND 8),
		prompt_id UUID NOT NULL REFERENCES prompts(id),
		prep_seconds INTEGER NOT NULL,
		speak_seconds INTEGER NOT NULL,
		audio_path TEXT,
		transcript TEXT,
		status task_status NOT NULL DEFAULT 'recorded',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_session ON tasks (session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks (user_id, status)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		task_id UUID NOT NULL UNIQUE REFERENCES tasks(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
		rubric JSONB NOT NULL,
		band INTEGER NOT NULL CHECK (band BETWEEN 1 AND 12),
		strengths TEXT[] NOT NULL,
		issues TEXT[] NOT NULL,
		suggestions JSONB NOT NULL,
		prosody JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS credits (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
		source credit_source NOT NULL,
		remaining INTEGER NOT NULL CHECK (remaining >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_credits_user ON credits (user_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
