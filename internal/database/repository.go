package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/record/store/mongodb"
	"github.com/MrJamesThe3rd/tally/internal/record/store/postgres"
)

// OpenRepository connects to the configured record store. The returned close
// function releases the underlying connection.
func OpenRepository(ctx context.Context, cfg *config.Config) (record.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		db, err := NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}

		closeFn := func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect mongo", "error", err)
			}
		}

		return mongodb.New(mongodb.NewProvider(db)), closeFn, nil
	case config.DriverPostgres:
		db, err := New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		if cfg.DB.Migrate {
			if err := Migrate(db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}

		closeFn := func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}

		return postgres.New(db), closeFn, nil
	}

	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
