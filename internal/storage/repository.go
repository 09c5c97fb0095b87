package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chm626/LehighEnergySymposium/internal/market"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	listWholesaleDailySQL = `SELECT
        date,
        zone,
        average_lmp
    FROM pjm_daily
    WHERE date >= $1
      AND zone IS NOT NULL
      AND average_lmp IS NOT NULL
    ORDER BY date, zone;`

	listWattBuyOffersSQL = `SELECT
        date,
        edc,
        egs,
        rate,
        term,
        rate_type,
        enrollment_fee,
        monthly_charge,
        early_term_fee_min
    FROM v_wattbuy_simple
    WHERE date >= $1
      AND edc IS NOT NULL
      AND egs IS NOT NULL
      AND rate IS NOT NULL
    ORDER BY date, edc, egs;`

	listOCAPOffersSQL = `SELECT
        date,
        edc,
        egs,
        rate,
        term,
        rate_type,
        cancel_fee
    FROM v_ocaplans_simple
    WHERE date >= $1
      AND edc IS NOT NULL
      AND egs IS NOT NULL
      AND rate IS NOT NULL
    ORDER BY date, edc, egs;`

	listBenchmarkPeriodsSQL = `SELECT
        edc,
        service_type,
        rate,
        start_date,
        end_date
    FROM v_ptc_agg
    WHERE start_date >= $1
      AND edc IS NOT NULL
      AND rate IS NOT NULL
      AND start_date IS NOT NULL
      AND end_date IS NOT NULL
    ORDER BY edc, start_date;`

	coverageSQLTemplate = `SELECT COUNT(*), MIN(%s), MAX(%s) FROM %s;`
)

// Repository runs the read-only source queries against the store. It
// implements the market package's row-source interfaces.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgx pool into a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Close releases the underlying pool resources.
func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// Ping verifies store connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	pool, err := r.getPool()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (r *Repository) getPool() (*pgxpool.Pool, error) {
	if r == nil || r.pool == nil {
		return nil, ErrNotConfigured
	}
	return r.pool, nil
}

// WholesaleDaily lists daily wholesale prices per zone from the floor date.
func (r *Repository) WholesaleDaily(ctx context.Context, from time.Time) ([]market.WholesaleRow, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listWholesaleDailySQL, from)
	if queryErr != nil {
		return nil, fmt.Errorf("list wholesale daily: %w", queryErr)
	}
	defer rows.Close()

	out := make([]market.WholesaleRow, 0)
	for rows.Next() {
		var row market.WholesaleRow
		if scanErr := rows.Scan(&row.Date, &row.Zone, &row.USDPerMWh); scanErr != nil {
			return nil, fmt.Errorf("scan wholesale row: %w", scanErr)
		}
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// WattBuyOffers lists retail offers from the WattBuy feed.
func (r *Repository) WattBuyOffers(ctx context.Context, from time.Time) ([]market.OfferRow, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listWattBuyOffersSQL, from)
	if queryErr != nil {
		return nil, fmt.Errorf("list wattbuy offers: %w", queryErr)
	}
	defer rows.Close()

	out := make([]market.OfferRow, 0)
	for rows.Next() {
		var (
			row        market.OfferRow
			term       sql.NullInt32
			rateType   sql.NullString
			enrollment sql.NullString
			monthly    sql.NullString
			earlyTerm  sql.NullString
		)
		if scanErr := rows.Scan(&row.Date, &row.EDC, &row.EGS, &row.Rate, &term, &rateType, &enrollment, &monthly, &earlyTerm); scanErr != nil {
			return nil, fmt.Errorf("scan wattbuy row: %w", scanErr)
		}
		if term.Valid {
			months := int(term.Int32)
			row.Term = &months
		}
		row.RateType = rateType.String
		row.EnrollmentFee = nullableString(enrollment)
		row.MonthlyCharge = nullableString(monthly)
		row.EarlyTermFee = nullableString(earlyTerm)
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// OCAPOffers lists retail offers from the OCA plans feed.
func (r *Repository) OCAPOffers(ctx context.Context, from time.Time) ([]market.OfferRow, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listOCAPOffersSQL, from)
	if queryErr != nil {
		return nil, fmt.Errorf("list ocap offers: %w", queryErr)
	}
	defer rows.Close()

	out := make([]market.OfferRow, 0)
	for rows.Next() {
		var (
			row      market.OfferRow
			term     sql.NullInt32
			rateType sql.NullString
			cancel   sql.NullString
		)
		if scanErr := rows.Scan(&row.Date, &row.EDC, &row.EGS, &row.Rate, &term, &rateType, &cancel); scanErr != nil {
			return nil, fmt.Errorf("scan ocap row: %w", scanErr)
		}
		if term.Valid {
			months := int(term.Int32)
			row.Term = &months
		}
		row.RateType = rateType.String
		row.CancelFee = nullableString(cancel)
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// BenchmarkPeriods lists PTC validity intervals starting at or after the
// floor date.
func (r *Repository) BenchmarkPeriods(ctx context.Context, from time.Time) ([]market.BenchmarkRow, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listBenchmarkPeriodsSQL, from)
	if queryErr != nil {
		return nil, fmt.Errorf("list benchmark periods: %w", queryErr)
	}
	defer rows.Close()

	out := make([]market.BenchmarkRow, 0)
	for rows.Next() {
		var (
			row         market.BenchmarkRow
			serviceType sql.NullString
		)
		if scanErr := rows.Scan(&row.EDC, &serviceType, &row.Rate, &row.Start, &row.End); scanErr != nil {
			return nil, fmt.Errorf("scan benchmark row: %w", scanErr)
		}
		row.ServiceType = serviceType.String
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
