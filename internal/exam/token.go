package exam

import (
	"strconv"
	"strings"
)

// Form tags the navigation state carried by a token.
type Form int

const (
	// FormUnrecognized marks a token outside the grammar.
	FormUnrecognized Form = iota
	// FormExam is "exam_main" / "exam_adv": exam chosen, no year yet.
	FormExam
	// FormYear is "year_<exam>_<year>".
	FormYear
	// FormRandom is "rand_<exam>": random year and random question.
	FormRandom
	// FormRandomInYear is "randyr_<exam>_<year>".
	FormRandomInYear
	// FormHome is "menu_home".
	FormHome
)

// HomeToken requests the root menu.
const HomeToken = "menu_home"

const (
	prefixYear         = "year"
	prefixRandom       = "rand"
	prefixRandomInYear = "randyr"
	sep                = "_"
)

var formNames = map[Form]string{
	FormUnrecognized: "unrecognized",
	FormExam:         "exam",
	FormYear:         "year",
	FormRandom:       "rand",
	FormRandomInYear: "randyr",
	FormHome:         "home",
}

// String returns a short name used as routing key and in logs.
func (f Form) String() string {
	if s, ok := formNames[f]; ok {
		return s
	}
	return "unrecognized"
}

// State is a decoded navigation token. Year is set only for FormYear and
// FormRandomInYear, Kind for every form except FormHome and FormUnrecognized.
type State struct {
	Form Form
	Kind Kind
	Year int
}

// Home returns the root menu state.
func Home() State { return State{Form: FormHome} }

// ExamChosen returns the state for a selected exam without year.
func ExamChosen(k Kind) State { return State{Form: FormExam, Kind: k} }

// YearChosen returns the state for a selected exam and year.
func YearChosen(k Kind, year int) State { return State{Form: FormYear, Kind: k, Year: year} }

// Random returns the state requesting a random question of any year.
func Random(k Kind) State { return State{Form: FormRandom, Kind: k} }

// RandomInYear returns the state requesting a random question of one year.
func RandomInYear(k Kind, year int) State {
	return State{Form: FormRandomInYear, Kind: k, Year: year}
}

// Recognized reports whether the state is one of the five grammar forms.
func (s State) Recognized() bool { return s.Form != FormUnrecognized }

// Encode renders the canonical token of s. Unrecognized states encode to "".
func Encode(s State) string {
	switch s.Form {
	case FormHome:
		return HomeToken
	case FormExam:
		return s.Kind.Token()
	case FormYear:
		return prefixYear + sep + s.Kind.Token() + sep + strconv.Itoa(s.Year)
	case FormRandom:
		return prefixRandom + sep + s.Kind.Token()
	case FormRandomInYear:
		return prefixRandomInYear + sep + s.Kind.Token() + sep + strconv.Itoa(s.Year)
	}
	return ""
}

// Decode parses a callback token. It never fails: strings outside the
// grammar decode to a state with FormUnrecognized.
//
// Exact tokens are matched first. Prefixed tokens are split on "_" and the
// exam kind is rebuilt from the two segments that follow the prefix, because
// the kind's own token contains a separator.
func Decode(token string) State {
	if token == HomeToken {
		return Home()
	}
	if k, ok := KindFromToken(token); ok {
		return ExamChosen(k)
	}

	parts := strings.Split(token, sep)
	switch parts[0] {
	case prefixRandom:
		if len(parts) != 3 {
			return State{}
		}
		k, ok := KindFromToken(parts[1] + sep + parts[2])
		if !ok {
			return State{}
		}
		return Random(k)
	case prefixYear, prefixRandomInYear:
		if len(parts) != 4 {
			return State{}
		}
		k, ok := KindFromToken(parts[1] + sep + parts[2])
		if !ok {
			return State{}
		}
		year, ok := parseYear(parts[3])
		if !ok {
			return State{}
		}
		if parts[0] == prefixYear {
			return YearChosen(k, year)
		}
		return RandomInYear(k, year)
	}
	return State{}
}

// parseYear accepts canonical decimal numbers only: digits, no sign, no
// leading zero.
func parseYear(s string) (int, bool) {
	if s == "" || len(s) > 9 || s[0] == '0' {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
