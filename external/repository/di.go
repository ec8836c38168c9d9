package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/config"
	"github.com/foxseedlab/kasirsuara/internal/repository"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*PostgresRepository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()

		p, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := RunMigration(ctx, p); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to run migration: %w", err)
		}
		return NewPostgresRepository(p), nil
	})
	do.Provide(injector, func(i do.Injector) (repository.CatalogRepository, error) {
		return do.MustInvoke[*PostgresRepository](i), nil
	})
	do.Provide(injector, func(i do.Injector) (repository.UnitOfWork, error) {
		return do.MustInvoke[*PostgresRepository](i), nil
	})
	do.Provide(injector, func(i do.Injector) (repository.ReportRepository, error) {
		return do.MustInvoke[*PostgresRepository](i), nil
	})
	do.Provide(injector, func(i do.Injector) (repository.HealthChecker, error) {
		return do.MustInvoke[*PostgresRepository](i), nil
	})
}

// NewPool connects and pings the database, registering NUMERIC as
// shopspring decimal on every connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	pcfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return p, nil
}
