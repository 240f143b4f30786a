package config

import (
	"os"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/jeepyq/core/config"
	coredatabase "github.com/m3rciful/jeepyq/core/database"
	"github.com/m3rciful/jeepyq/internal/exam"
)

func minimal() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "token"
	cfg.Archive.Owner = "octo"
	cfg.Archive.Repo = "jee-pyq"
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := minimal()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Archive.Branch != "main" || cfg.Archive.Ext != "jpg" || cfg.Archive.BaseURL != "https://raw.githubusercontent.com" {
		t.Fatalf("unexpected archive defaults %+v", cfg.Archive)
	}
	if cfg.Exam.FirstYear != 2013 || cfg.Exam.LastYear != 2025 || cfg.Exam.MaxQuestions != 50 {
		t.Fatalf("unexpected exam defaults %+v", cfg.Exam)
	}
	if cfg.Stats.Backend != StatsMemory {
		t.Fatalf("stats backend = %q, want memory", cfg.Stats.Backend)
	}
	if cfg.Telegram.RunMode != coreconfig.RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRequiresArchive(t *testing.T) {
	cfg := minimal()
	cfg.Archive.Repo = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected archive error")
	}
}

func TestNormalizeRejectsInvertedYears(t *testing.T) {
	cfg := minimal()
	cfg.Exam.FirstYear = 2025
	cfg.Exam.LastYear = 2013
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected year range error")
	}
}

func TestNormalizeSQLStatsNeedsDatabase(t *testing.T) {
	cfg := minimal()
	cfg.Stats.Backend = "sql"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error without database")
	}

	cfg = minimal()
	cfg.Database = coredatabase.Config{Driver: "sqlite", Path: ":memory:"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Stats.Backend != StatsSQL || cfg.Database.Driver != coredatabase.DriverSQLite {
		t.Fatalf("expected sql stats on sqlite3, got %q / %q", cfg.Stats.Backend, cfg.Database.Driver)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("TELEGRAM_RUN_MODE", "serverless")
	t.Setenv("GITHUB_USERNAME", "octo")
	t.Setenv("REPO_NAME", "pyq")
	t.Setenv("MAX_QUESTIONS_PER_YEAR", "75")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Archive.Owner != "octo" || cfg.Archive.Repo != "pyq" {
		t.Fatalf("unexpected archive %+v", cfg.Archive)
	}
	if cfg.Exam.MaxQuestions != 75 {
		t.Fatalf("max questions = %d", cfg.Exam.MaxQuestions)
	}
	if cfg.CoreConfig().Telegram.RunMode != coreconfig.RunModeServerless {
		t.Fatalf("run mode = %q", cfg.CoreConfig().Telegram.RunMode)
	}
}

func TestLoadYAMLInlineCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`telegram:
  token: file-token
archive:
  owner: octo
  repo: pyq
  branch: master
exam:
  first_year: 2019
  last_year: 2021
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "file-token" || cfg.Archive.Branch != "master" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := cfg.Catalog().Years(); len(got) != 3 {
		t.Fatalf("years = %v", got)
	}
	want := "https://raw.githubusercontent.com/octo/pyq/master/images/jee_main/2019/1.jpg"
	if got := cfg.ImageArchive().BuildImageLocation(exam.Main, 2019, 1); got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}
