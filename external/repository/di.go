package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
	"github.com/speakband/speakband/internal/config"
	"github.com/speakband/speakband/internal/repository"
)

const databaseInitTimeout = 30 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()

		p, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}

		// The database may still be coming up alongside the service.
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = databaseInitTimeout
		if err := backoff.Retry(func() error {
			return p.Ping(ctx)
		}, backoff.WithContext(bo, ctx)); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		if err := RunMigration(ctx, p); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to run migration: %w", err)
		}
		return NewPostgresRepository(p), nil
	})
}
