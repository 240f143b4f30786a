// Package menu builds the bot screens: display text plus an inline keyboard
// whose buttons carry navigation tokens.
package menu

import (
	"fmt"
	"strconv"

	"github.com/m3rciful/jeepyq/internal/exam"
)

// YearsPerRow is the width of the year grid.
const YearsPerRow = 3

// Button is one inline button: a label and the token sent back on click.
type Button struct {
	Label string
	Token string
}

// Screen is a message body with its keyboard layout.
type Screen struct {
	Text     string
	Keyboard [][]Button
}

// Tokens flattens the keyboard into its tokens, row by row.
func (s Screen) Tokens() []string {
	var out []string
	for _, row := range s.Keyboard {
		for _, b := range row {
			out = append(out, b.Token)
		}
	}
	return out
}

// Root is the welcome screen shown on /start and on menu_home.
func Root() Screen {
	return Screen{
		Text: "🎓 *Welcome to the JEE PYQ Bot!*\n\nChoose an exam to proceed:",
		Keyboard: [][]Button{{
			{Label: "📘 JEE Main", Token: exam.Encode(exam.ExamChosen(exam.Main))},
			{Label: "📕 JEE Advanced", Token: exam.Encode(exam.ExamChosen(exam.Advanced))},
		}},
	}
}

// ExamMenu lists the years of an exam, YearsPerRow per row, followed by the
// random and back rows.
func ExamMenu(k exam.Kind, years []int) Screen {
	var rows [][]Button
	var row []Button
	for _, y := range years {
		row = append(row, Button{Label: strconv.Itoa(y), Token: exam.Encode(exam.YearChosen(k, y))})
		if len(row) == YearsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		[]Button{{Label: fmt.Sprintf("🎲 Random Question (%s)", k.DisplayName()), Token: exam.Encode(exam.Random(k))}},
		[]Button{{Label: "🔙 Back to Menu", Token: exam.HomeToken}},
	)
	return Screen{
		Text:     fmt.Sprintf("📂 You selected *%s*.\nSelect a Year or choose Random:", k.DisplayName()),
		Keyboard: rows,
	}
}

// YearMenu offers a random question of the year and explains how to ask for
// a specific one.
func YearMenu(k exam.Kind, year int) Screen {
	text := fmt.Sprintf("📅 *%s - %d*\n\n"+
		"To get a question, *reply to this message* with the question number (e.g. 5).\n\n"+
		"Or click below for a random one from this year.", k.DisplayName(), year)
	return Screen{
		Text: text,
		Keyboard: [][]Button{
			{{Label: fmt.Sprintf("🎲 Random from %d", year), Token: exam.Encode(exam.RandomInYear(k, year))}},
			{{Label: "🔙 Back", Token: exam.Encode(exam.ExamChosen(k))}},
		},
	}
}

// Question is the caption and keyboard attached to a question image.
func Question(k exam.Kind, year, n int) Screen {
	return Screen{
		Text:     fmt.Sprintf("📝 *%s %d*\n#️⃣ Question: %d", k.DisplayName(), year, n),
		Keyboard: [][]Button{{{Label: "🔄 Another Random", Token: exam.Encode(exam.Random(k))}}},
	}
}

// FetchFailed is the short notice sent when a question image cannot be
// delivered. It is plain text: the URL may contain Markdown specials.
func FetchFailed(year, n int, url string) string {
	return fmt.Sprintf("⚠️ Could not load Question %d for %d. It might not exist yet.\nURL tried: %s", n, year, url)
}

// DeliveryFailed is the notice sent when a menu cannot be shown.
const DeliveryFailed = "⚠️ Something went wrong. Please try /start again."

// Usage explains the direct question command.
func Usage(c exam.Catalog) string {
	return fmt.Sprintf("Usage: /q <main|adv> <year> <number>\n"+
		"Years %d-%d, questions 1-%d. Example: /q main %d 5",
		c.FirstYear, c.LastYear, c.MaxQuestions, c.FirstYear)
}

// QuestionRange is the notice sent when a replied question number is out of
// range.
func QuestionRange(max int) string {
	return fmt.Sprintf("🔢 Please reply with a question number between 1 and %d.", max)
}
