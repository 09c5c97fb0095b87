package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Status checks database connectivity and reports coverage for each
// source table.
func (a *App) Status(ctx context.Context) error {
	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		fmt.Fprintf(os.Stdout, "database: unreachable (%s)\n", err)
		return nil
	}
	defer closeRepo()

	svc := a.newService(repo)
	result, err := svc.Status(ctx, repo)
	if err != nil {
		return err
	}

	if !result.Connected {
		fmt.Fprintf(os.Stdout, "database: unreachable (%s)\n", result.Reason)
		return nil
	}
	fmt.Fprintln(os.Stdout, "database: connected")

	if len(result.Coverage) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Table\tRows\tFrom\tTo")
	for _, coverage := range result.Coverage {
		from, to := "-", "-"
		if coverage.From != nil {
			from = coverage.From.Format("2006-01-02")
		}
		if coverage.To != nil {
			to = coverage.To.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", coverage.Table, coverage.Rows, from, to)
	}
	return w.Flush()
}
