package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// BackendConfig selects a history backend. Only the section matching
// Backend is read.
type BackendConfig struct {
	Backend  string
	Upstash  UpstashRedisConfig
	Database DatabaseConfig
}

// Open builds the configured Store. The returned close function releases
// any database handle and is never nil.
func Open(ctx context.Context, cfg BackendConfig) (Store, func() error, error) {
	noop := func() error { return nil }

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendMemory
	}

	switch backend {
	case BackendMemory:
		log.Ctx(ctx).Info().Str("component", "state").Str("backend", backend).Msg("history store ready")
		return NewMemoryStore(), noop, nil

	case BackendUpstash:
		store, err := NewUpstashRedisStore(cfg.Upstash)
		if err != nil {
			return nil, noop, err
		}
		log.Ctx(ctx).Info().Str("component", "state").Str("backend", backend).Msg("history store ready")
		return store, noop, nil

	case BackendPostgres, BackendSQLite:
		var (
			db  *bun.DB
			err error
		)
		if backend == BackendPostgres {
			db, err = OpenPostgres(cfg.Database)
		} else {
			db, err = OpenSQLite(cfg.Database)
		}
		if err != nil {
			return nil, noop, err
		}

		store, err := NewSQLStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		log.Ctx(ctx).Info().Str("component", "state").Str("backend", backend).Msg("history store ready")
		return store, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
