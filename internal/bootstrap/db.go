package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haitaton/hanke-service/config"
	"github.com/haitaton/hanke-service/internal/storage/postgres"
)

type DBOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
	// Migrate applies the embedded migrations after connecting.
	Migrate bool
}

func OpenDB(ctx context.Context, cfg *config.DatabaseConfig, opt DBOptions) (*sql.DB, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	db, err := postgres.NewConnection(cctx, cfg, postgres.Options{PingTO: opt.PingTO})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if opt.Migrate {
		if err := postgres.ApplyMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
	}

	return db, nil
}
