package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TableCoverage summarises one source table: its row count and the date
// span it covers. From and To are nil for an empty table.
type TableCoverage struct {
	Table string
	Rows  int64
	From  *time.Time
	To    *time.Time
}

var coverageTargets = []struct {
	table      string
	dateColumn string
}{
	{table: "pjm_daily", dateColumn: "date"},
	{table: "v_wattbuy_simple", dateColumn: "date"},
	{table: "v_ocaplans_simple", dateColumn: "date"},
	{table: "v_ptc_agg", dateColumn: "start_date"},
}

// Coverage reports row counts and date spans for every source table.
func (r *Repository) Coverage(ctx context.Context) ([]TableCoverage, error) {
	pool, err := r.getPool()
	if err != nil {
		return nil, err
	}

	out := make([]TableCoverage, 0, len(coverageTargets))
	for _, target := range coverageTargets {
		query := fmt.Sprintf(coverageSQLTemplate, target.dateColumn, target.dateColumn, target.table)

		var (
			count int64
			from  sql.NullTime
			to    sql.NullTime
		)
		if scanErr := pool.QueryRow(ctx, query).Scan(&count, &from, &to); scanErr != nil {
			return nil, fmt.Errorf("coverage for %s: %w", target.table, scanErr)
		}

		coverage := TableCoverage{Table: target.table, Rows: count}
		if from.Valid {
			value := from.Time
			coverage.From = &value
		}
		if to.Valid {
			value := to.Time
			coverage.To = &value
		}
		out = append(out, coverage)
	}
	return out, nil
}
