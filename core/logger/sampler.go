package logger

import (
	"strconv"
	"strings"

	"go.uber.org/atomic"
)

// ratioSampler lets num out of every den events through. A zero ratio lets
// everything through.
type ratioSampler struct {
	num  atomic.Int64
	den  atomic.Int64
	seen atomic.Uint64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the window.
func (s *ratioSampler) Set(num, den int) {
	if num <= 0 || den <= 0 {
		num, den = 0, 0
	}
	if num > den {
		num = den
	}
	s.num.Store(int64(num))
	s.den.Store(int64(den))
	s.seen.Store(0)
}

// Allow reports whether the next event passes.
func (s *ratioSampler) Allow() bool {
	num, den := s.num.Load(), s.den.Load()
	if num <= 0 || den <= 0 {
		return true
	}
	pos := (s.seen.Inc() - 1) % uint64(den)
	return int64(pos) < num
}

// parseRatioSpec accepts "n/d", "n%" or a bare "d" meaning 1/d. "all" and
// anything unparsable yield 0/0.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	switch {
	case spec == "" || spec == "all":
		return 0, 0
	case strings.HasSuffix(spec, "%"):
		if pct, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(spec, "%"))); err == nil && pct > 0 {
			return pct, 100
		}
		return 0, 0
	case strings.Contains(spec, "/"):
		a, b, _ := strings.Cut(spec, "/")
		num, err1 := strconv.Atoi(strings.TrimSpace(a))
		den, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
