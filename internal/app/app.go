package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chm626/LehighEnergySymposium/internal/config"
	"github.com/chm626/LehighEnergySymposium/internal/market"
	"github.com/chm626/LehighEnergySymposium/internal/service"
	"github.com/chm626/LehighEnergySymposium/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	cache      *market.Cache
	normalizer *market.Normalizer
}

// NewApp constructs a new application handle. The cache lives as long as
// the process and is shared by every command invocation.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config:     cfg,
		Logger:     logger.With().Str("component", "app").Logger(),
		cache:      market.NewCache(),
		normalizer: market.NewNormalizer(),
	}
}

func (a *App) openRepository(ctx context.Context) (*storage.Repository, func(), error) {
	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	repo := storage.NewRepository(pool)
	closer := func() {
		repo.Close()
	}
	return repo, closer, nil
}

func (a *App) newService(repo *storage.Repository) *service.Service {
	bounds := market.Bounds{MaxCentsPerKWh: decimal.NewFromFloat(a.Config.Data.MaxRate)}
	loaders := market.NewLoaders(repo, repo, repo, a.normalizer, bounds, a.cache, a.Logger)
	return service.New(loaders, a.normalizer, a.Config.Data, a.Logger)
}

// InvalidateCache flushes memoised loader results, forcing the next command
// to re-query the store.
func (a *App) InvalidateCache() {
	a.cache.Invalidate("")
}

// reportUnavailable turns a source-unavailable error into the "no data"
// disclosure the pipeline requires instead of a hard failure. It returns
// true when the error was handled.
func (a *App) reportUnavailable(err error) bool {
	var unavailable *market.DataUnavailableError
	if errors.As(err, &unavailable) {
		a.Logger.Error().Err(unavailable.Err).Str("source", string(unavailable.Source)).Msg("source unavailable")
		fmt.Fprintf(os.Stdout, "no data for this selection: %s\n", unavailable.Error())
		return true
	}
	return false
}

// CompareOptions configure the compare command.
type CompareOptions struct {
	EDC     string
	Conform bool
	CSVPath string
	PNGPath string
}

// OffersOptions configure the offers command.
type OffersOptions struct {
	EDC     string
	Conform bool
}

// FeesOptions configure the fees command.
type FeesOptions struct {
	EDC     string
	FeeType string
}

// WholesaleOptions configure the wholesale command.
type WholesaleOptions struct {
	Zones []string
}

// ExportOptions hold parameters for exporting a comparison series.
type ExportOptions struct {
	EDC       string
	Conform   bool
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}
