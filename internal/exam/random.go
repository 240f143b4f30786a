package exam

import (
	"fmt"
	"math/rand/v2"
)

// Source draws uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

// IntN uses the goroutine-safe top-level generator of math/rand/v2.
func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Catalog is the immutable description of the browsable question space.
type Catalog struct {
	FirstYear    int
	LastYear     int
	MaxQuestions int
}

// Validate reports an error for empty ranges.
func (c Catalog) Validate() error {
	if c.FirstYear <= 0 || c.LastYear < c.FirstYear {
		return fmt.Errorf("exam: invalid year range %d..%d", c.FirstYear, c.LastYear)
	}
	if c.MaxQuestions < 1 {
		return fmt.Errorf("exam: max questions must be >= 1, got %d", c.MaxQuestions)
	}
	return nil
}

// Years lists the configured years in ascending order.
func (c Catalog) Years() []int {
	if c.LastYear < c.FirstYear {
		return nil
	}
	years := make([]int, 0, c.LastYear-c.FirstYear+1)
	for y := c.FirstYear; y <= c.LastYear; y++ {
		years = append(years, y)
	}
	return years
}

// HasYear reports whether year lies in the configured range.
func (c Catalog) HasYear(year int) bool {
	return year >= c.FirstYear && year <= c.LastYear
}

// HasQuestion reports whether n lies in [1, MaxQuestions].
func (c Catalog) HasQuestion(n int) bool {
	return n >= 1 && n <= c.MaxQuestions
}

// Picker selects random years and question numbers from a Catalog.
type Picker struct {
	catalog Catalog
	src     Source
}

// NewPicker returns a Picker. A nil src selects the global generator.
func NewPicker(c Catalog, src Source) *Picker {
	if src == nil {
		src = globalSource{}
	}
	return &Picker{catalog: c, src: src}
}

// SelectRandomYear returns a uniform element of the configured year range.
func (p *Picker) SelectRandomYear() int {
	span := p.catalog.LastYear - p.catalog.FirstYear + 1
	if span <= 1 {
		return p.catalog.FirstYear
	}
	return p.catalog.FirstYear + p.src.IntN(span)
}

// SelectRandomQuestion returns a uniform integer in [1, MaxQuestions].
func (p *Picker) SelectRandomQuestion() int {
	if p.catalog.MaxQuestions <= 1 {
		return 1
	}
	return 1 + p.src.IntN(p.catalog.MaxQuestions)
}
