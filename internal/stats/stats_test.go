package stats

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	coredatabase "github.com/m3rciful/jeepyq/core/database"
	"github.com/m3rciful/jeepyq/internal/exam"
	"github.com/m3rciful/jeepyq/migrations"
)

func TestMemoryConcurrentRecord(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Record(ctx, Delivery{Kind: exam.Main, Year: 2019, Question: i + 1, OK: i%5 != 0})
		}(i)
	}
	wg.Wait()
	_ = m.Record(ctx, Delivery{Kind: exam.Advanced, Year: 2020, Question: 3, OK: true})
	_ = m.Record(ctx, Delivery{Kind: exam.Main, Year: 2013, Question: 1, OK: true})

	sum, err := m.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 52 || sum.Failed != 10 {
		t.Fatalf("total/failed = %d/%d, want 52/10", sum.Total, sum.Failed)
	}
	want := []Bucket{
		{Kind: exam.Main, Year: 2013, Delivered: 1},
		{Kind: exam.Main, Year: 2019, Delivered: 40, Failed: 10},
		{Kind: exam.Advanced, Year: 2020, Delivered: 1},
	}
	if len(sum.Buckets) != len(want) {
		t.Fatalf("buckets = %+v", sum.Buckets)
	}
	for i := range want {
		if sum.Buckets[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, sum.Buckets[i], want[i])
		}
	}
	if n, _ := m.Prune(ctx, time.Now()); n != 0 {
		t.Fatalf("memory prune = %d", n)
	}
}

func openSQLite(t *testing.T) *SQL {
	t.Helper()
	cfg := coredatabase.Config{Driver: "sqlite3", Path: ":memory:"}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	db, err := coredatabase.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := coredatabase.RunMigrations(db, cfg, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQL(db)
}

func TestSQLRecordSummaryPrune(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	old := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	records := []Delivery{
		{Kind: exam.Advanced, Year: 2020, Question: 4, OK: true, At: old},
		{Kind: exam.Main, Year: 2019, Question: 5, OK: true, At: recent},
		{Kind: exam.Main, Year: 2019, Question: 6, OK: false, At: recent},
		{Kind: exam.Main, Year: 2021, Question: 1, OK: true, At: old},
	}
	for _, d := range records {
		if err := s.Record(ctx, d); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 4 || sum.Failed != 1 || len(sum.Buckets) != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if b := sum.Buckets[0]; b.Kind != exam.Main || b.Year != 2019 || b.Delivered != 1 || b.Failed != 1 {
		t.Fatalf("first bucket = %+v", b)
	}
	if b := sum.Buckets[2]; b.Kind != exam.Advanced || b.Year != 2020 {
		t.Fatalf("last bucket = %+v", b)
	}

	n, err := s.Prune(ctx, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Fatalf("pruned = %d, want 2", n)
	}
	sum, _ = s.Summary(ctx)
	if sum.Total != 2 || len(sum.Buckets) != 1 {
		t.Fatalf("after prune %+v", sum)
	}
}

func TestRetentionPrunesByAge(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	_ = s.Record(ctx, Delivery{Kind: exam.Main, Year: 2019, Question: 1, OK: true, At: now.Add(-40 * 24 * time.Hour)})
	_ = s.Record(ctx, Delivery{Kind: exam.Main, Year: 2019, Question: 2, OK: true, At: now.Add(-2 * 24 * time.Hour)})

	r := NewRetention(s, 30, "03:00")
	r.now = func() time.Time { return now }
	n, err := r.Prune(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned = %d, want 1", n)
	}
}

func TestRetentionStartStop(t *testing.T) {
	r := NewRetention(NewMemory(), 7, "04:30")
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.Stop()

	bad := NewRetention(NewMemory(), 7, "25:99")
	if err := bad.Start(); err == nil {
		bad.Stop()
		t.Fatal("expected invalid time error")
	}
}

func TestExportRoundTrip(t *testing.T) {
	sum := Summary{
		Total:  6,
		Failed: 1,
		Buckets: []Bucket{
			{Kind: exam.Main, Year: 2019, Delivered: 3, Failed: 1},
			{Kind: exam.Advanced, Year: 2020, Delivered: 2},
		},
	}
	data, err := Export(sum)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "Exam" || rows[0][3] != "Failed" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "JEE Main" || rows[1][1] != "2019" || rows[1][2] != "3" || rows[1][3] != "1" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if rows[3][0] != "Total" || rows[3][2] != "5" || rows[3][3] != "1" {
		t.Fatalf("totals = %v", rows[3])
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	if err := r.Record(context.Background(), Delivery{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if sum, _ := r.Summary(context.Background()); sum.Total != 0 {
		t.Fatalf("summary = %+v", sum)
	}
}
