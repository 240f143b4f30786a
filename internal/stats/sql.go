package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/jeepyq/internal/exam"
)

// SQL stores each delivery as a row of the deliveries table. The schema is
// created by the migrations package.
type SQL struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQL wraps an open postgres or sqlite3 connection.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

// Timestamps are stored in UTC with second precision so that sqlite3 text
// comparison orders them correctly.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Record implements Recorder.
func (s *SQL) Record(ctx context.Context, d Delivery) error {
	at := d.At
	if at.IsZero() {
		at = s.now()
	}
	q := s.db.Rebind(`INSERT INTO deliveries (exam, year, question, ok, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q, d.Kind.Short(), d.Year, d.Question, d.OK, stamp(at)); err != nil {
		return fmt.Errorf("stats record: %w", err)
	}
	return nil
}

type bucketRow struct {
	Exam      string `db:"exam"`
	Year      int    `db:"year"`
	Delivered int64  `db:"delivered"`
	Failed    int64  `db:"failed"`
}

// Summary implements Recorder.
func (s *SQL) Summary(ctx context.Context) (Summary, error) {
	var rows []bucketRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT exam, year,
		       SUM(CASE WHEN ok THEN 1 ELSE 0 END) AS delivered,
		       SUM(CASE WHEN ok THEN 0 ELSE 1 END) AS failed
		FROM deliveries
		GROUP BY exam, year`)
	if err != nil {
		return Summary{}, fmt.Errorf("stats summary: %w", err)
	}

	var sum Summary
	for _, r := range rows {
		k, ok := exam.ParseKind(r.Exam)
		if !ok {
			continue
		}
		sum.Buckets = append(sum.Buckets, Bucket{Kind: k, Year: r.Year, Delivered: r.Delivered, Failed: r.Failed})
		sum.Total += r.Delivered + r.Failed
		sum.Failed += r.Failed
	}
	sortBuckets(sum.Buckets)
	return sum, nil
}

// Prune implements Recorder.
func (s *SQL) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM deliveries WHERE created_at < ?`), stamp(before))
	if err != nil {
		return 0, fmt.Errorf("stats prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("stats prune: %w", err)
	}
	return n, nil
}
