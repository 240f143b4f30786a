// Package config defines the bot configuration: the reusable core settings
// plus the question archive, the exam catalogue and optional statistics.
package config

import (
	"fmt"
	"strings"

	coreconfig "github.com/m3rciful/jeepyq/core/config"
	coredatabase "github.com/m3rciful/jeepyq/core/database"
	"github.com/m3rciful/jeepyq/internal/exam"
)

// ArchiveConfig locates the repository holding question images.
type ArchiveConfig struct {
	Owner   string `yaml:"owner" toml:"owner" envconfig:"GITHUB_USERNAME"`
	Repo    string `yaml:"repo" toml:"repo" envconfig:"REPO_NAME"`
	Branch  string `yaml:"branch" toml:"branch" envconfig:"ARCHIVE_BRANCH"`
	BaseURL string `yaml:"base_url" toml:"base_url" envconfig:"ARCHIVE_BASE_URL"`
	Ext     string `yaml:"ext" toml:"ext" envconfig:"ARCHIVE_IMAGE_EXT"`
}

// ExamConfig bounds the browsable question space.
type ExamConfig struct {
	FirstYear    int `yaml:"first_year" toml:"first_year" envconfig:"EXAM_FIRST_YEAR"`
	LastYear     int `yaml:"last_year" toml:"last_year" envconfig:"EXAM_LAST_YEAR"`
	MaxQuestions int `yaml:"max_questions_per_year" toml:"max_questions_per_year" envconfig:"MAX_QUESTIONS_PER_YEAR"`
}

const (
	// StatsOff disables delivery statistics.
	StatsOff = "off"
	// StatsMemory keeps counters in process memory.
	StatsMemory = "memory"
	// StatsSQL stores deliveries in the configured database.
	StatsSQL = "sql"
)

// StatsConfig configures delivery statistics.
type StatsConfig struct {
	Backend       string `yaml:"backend" toml:"backend" envconfig:"STATS_BACKEND"`
	RetentionDays int    `yaml:"retention_days" toml:"retention_days" envconfig:"STATS_RETENTION_DAYS"`
	// PruneAt is the daily UTC time ("HH:MM") of the retention job.
	PruneAt string `yaml:"prune_at" toml:"prune_at" envconfig:"STATS_PRUNE_AT"`
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Archive  ArchiveConfig       `yaml:"archive" toml:"archive"`
	Exam     ExamConfig          `yaml:"exam" toml:"exam"`
	Database coredatabase.Config `yaml:"database" toml:"database"`
	Stats    StatsConfig         `yaml:"stats" toml:"stats"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Catalog returns the exam catalogue described by the configuration.
func (c *Config) Catalog() exam.Catalog {
	return exam.Catalog{
		FirstYear:    c.Exam.FirstYear,
		LastYear:     c.Exam.LastYear,
		MaxQuestions: c.Exam.MaxQuestions,
	}
}

// ImageArchive returns the image location builder.
func (c *Config) ImageArchive() exam.Archive {
	return exam.Archive{
		BaseURL: c.Archive.BaseURL,
		Owner:   c.Archive.Owner,
		Repo:    c.Archive.Repo,
		Branch:  c.Archive.Branch,
		Ext:     c.Archive.Ext,
	}
}

// Load reads the configuration file (YAML or TOML, optional) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates all sections and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	a := &cfg.Archive
	if strings.TrimSpace(a.Owner) == "" || strings.TrimSpace(a.Repo) == "" {
		return fmt.Errorf("archive.owner and archive.repo are required")
	}
	if a.Branch == "" {
		a.Branch = "main"
	}
	if a.BaseURL == "" {
		a.BaseURL = exam.DefaultImageBase
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
	if a.Ext == "" {
		a.Ext = "jpg"
	}
	a.Ext = strings.TrimPrefix(a.Ext, ".")

	e := &cfg.Exam
	if e.FirstYear == 0 {
		e.FirstYear = 2013
	}
	if e.LastYear == 0 {
		e.LastYear = 2025
	}
	if e.MaxQuestions == 0 {
		e.MaxQuestions = 50
	}
	if err := cfg.Catalog().Validate(); err != nil {
		return err
	}

	if err := cfg.Database.Normalize(); err != nil {
		return err
	}

	s := &cfg.Stats
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend == "" {
		s.Backend = StatsMemory
		if cfg.Database.Enabled() {
			s.Backend = StatsSQL
		}
	}
	switch s.Backend {
	case StatsOff, StatsMemory:
	case StatsSQL:
		if !cfg.Database.Enabled() {
			return fmt.Errorf("stats.backend 'sql' requires database.driver")
		}
	default:
		return fmt.Errorf("invalid stats.backend %q; allowed: off, memory, sql", s.Backend)
	}
	if s.RetentionDays < 0 {
		return fmt.Errorf("stats.retention_days must be >= 0")
	}
	if s.PruneAt == "" {
		s.PruneAt = "03:00"
	}
	return nil
}
