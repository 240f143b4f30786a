package menu

import (
	"strings"
	"testing"

	"github.com/m3rciful/jeepyq/internal/exam"
)

func TestRootHasTwoExamButtons(t *testing.T) {
	s := Root()
	tokens := s.Tokens()
	if len(tokens) != 2 || tokens[0] != "exam_main" || tokens[1] != "exam_adv" {
		t.Fatalf("unexpected root tokens %v", tokens)
	}
	if len(s.Keyboard) != 1 {
		t.Fatalf("root buttons must share one row, got %d rows", len(s.Keyboard))
	}
}

func TestExamMenuLayout(t *testing.T) {
	years := exam.Catalog{FirstYear: 2013, LastYear: 2025, MaxQuestions: 50}.Years()
	s := ExamMenu(exam.Main, years)

	// 13 years -> 5 rows (3,3,3,3,1) + random row + home row.
	if len(s.Keyboard) != 7 {
		t.Fatalf("rows = %d, want 7", len(s.Keyboard))
	}
	for i := 0; i < 4; i++ {
		if len(s.Keyboard[i]) != YearsPerRow {
			t.Fatalf("row %d has %d buttons, want %d", i, len(s.Keyboard[i]), YearsPerRow)
		}
	}
	if len(s.Keyboard[4]) != 1 || s.Keyboard[4][0].Token != "year_exam_main_2025" {
		t.Fatalf("unexpected last year row %+v", s.Keyboard[4])
	}

	tokens := s.Tokens()
	if len(tokens) != len(years)+2 {
		t.Fatalf("tokens = %d, want %d", len(tokens), len(years)+2)
	}
	for i, y := range years {
		want := exam.Encode(exam.YearChosen(exam.Main, y))
		if tokens[i] != want {
			t.Fatalf("token %d = %q, want %q", i, tokens[i], want)
		}
	}
	if tokens[len(tokens)-2] != "rand_exam_main" || tokens[len(tokens)-1] != "menu_home" {
		t.Fatalf("unexpected trailing tokens %v", tokens[len(tokens)-2:])
	}
	if !strings.Contains(s.Text, "JEE Main") {
		t.Fatalf("text should name the exam: %q", s.Text)
	}
}

func TestExamMenuExactMultipleOfRow(t *testing.T) {
	s := ExamMenu(exam.Advanced, []int{2019, 2020, 2021})
	if len(s.Keyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(s.Keyboard))
	}
}

func TestYearMenuTokens(t *testing.T) {
	s := YearMenu(exam.Advanced, 2020)
	tokens := s.Tokens()
	if len(tokens) != 2 || tokens[0] != "randyr_exam_adv_2020" || tokens[1] != "exam_adv" {
		t.Fatalf("unexpected year menu tokens %v", tokens)
	}
}

func TestQuestionOffersAnotherRandom(t *testing.T) {
	s := Question(exam.Main, 2013, 5)
	if got := s.Tokens(); len(got) != 1 || got[0] != "rand_exam_main" {
		t.Fatalf("unexpected question tokens %v", got)
	}
	if !strings.Contains(s.Text, "Question: 5") || !strings.Contains(s.Text, "JEE Main 2013") {
		t.Fatalf("unexpected caption %q", s.Text)
	}
}

func TestEveryButtonTokenDecodes(t *testing.T) {
	screens := []Screen{
		Root(),
		ExamMenu(exam.Main, []int{2013, 2014}),
		YearMenu(exam.Main, 2014),
		Question(exam.Advanced, 2014, 1),
	}
	for _, s := range screens {
		for _, token := range s.Tokens() {
			if !exam.Decode(token).Recognized() {
				t.Fatalf("button token %q does not decode", token)
			}
			if len(token) > 64 {
				t.Fatalf("token %q exceeds callback data limit", token)
			}
		}
	}
}
