package service

import (
	"context"
	"fmt"

	"github.com/chm626/LehighEnergySymposium/internal/storage"
)

// StoreHealth is what the status command needs from the store.
type StoreHealth interface {
	Ping(ctx context.Context) error
	Coverage(ctx context.Context) ([]storage.TableCoverage, error)
}

// StatusResult reports store connectivity and per-source coverage.
type StatusResult struct {
	Connected bool
	Reason    string
	Coverage  []storage.TableCoverage
}

// Status pings the store and, when reachable, summarises every source
// table.
func (s *Service) Status(ctx context.Context, store StoreHealth) (StatusResult, error) {
	if store == nil {
		return StatusResult{Reason: "database not configured"}, nil
	}

	if err := store.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("store ping failed")
		return StatusResult{Reason: err.Error()}, nil
	}

	coverage, err := store.Coverage(ctx)
	if err != nil {
		return StatusResult{}, fmt.Errorf("collect coverage: %w", err)
	}
	return StatusResult{Connected: true, Coverage: coverage}, nil
}
