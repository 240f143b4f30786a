package database

import (
	"strings"
	"testing"

	"github.com/m3rciful/jeepyq/migrations"
)

func TestNormalizeDrivers(t *testing.T) {
	pg := Config{Driver: "PostgreSQL", Host: "db", Name: "jeepyq", User: "bot", Password: "p@ss"}
	if err := pg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if pg.Driver != DriverPostgres || pg.Port != "5432" || pg.SSLMode != "disable" || pg.MaxConnections != 5 {
		t.Fatalf("unexpected postgres defaults %+v", pg)
	}
	if got := pg.DSN(); !strings.Contains(got, "host=db port=5432 dbname=jeepyq") {
		t.Fatalf("dsn = %q", got)
	}

	lite := Config{Driver: "sqlite", Path: "stats.db", MaxConnections: 10}
	if err := lite.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if lite.Driver != DriverSQLite || lite.MaxConnections != 1 || lite.DSN() != "stats.db" {
		t.Fatalf("unexpected sqlite config %+v", lite)
	}

	if err := (&Config{Driver: "sqlite3"}).Normalize(); err == nil {
		t.Fatal("expected missing path error")
	}
	if err := (&Config{Driver: "mysql"}).Normalize(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	off := Config{}
	if err := off.Normalize(); err != nil || off.Enabled() {
		t.Fatalf("empty driver must stay disabled: %v", err)
	}
}

func TestRunMigrationsSQLite(t *testing.T) {
	cfg := Config{Driver: DriverSQLite, Path: ":memory:"}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db, cfg, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Second run is a no-op.
	if err := RunMigrations(db, cfg, migrations.FS); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO deliveries (exam, year, question, ok) VALUES ('main', 2019, 5, 1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM deliveries`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestSelectApplied(t *testing.T) {
	files := []string{"000001_a.up.sql", "000002_b.up.sql", "000003_c.up.sql"}
	got := selectApplied(files, 1, 3)
	if len(got) != 2 || got[0] != "000002_b.up.sql" {
		t.Fatalf("selectApplied = %v", got)
	}
	if selectApplied(files, 3, 3) != nil {
		t.Fatal("no change must select nothing")
	}
}
