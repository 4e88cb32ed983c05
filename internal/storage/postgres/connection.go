package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haitaton/hanke-service/config"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Options struct {
	PingTO time.Duration
}

func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, opt Options) (*sql.DB, error) {
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
