package handlers

import (
	"strconv"
	"strings"

	tghelpers "github.com/m3rciful/jeepyq/core/telegram/helpers"
	"github.com/m3rciful/jeepyq/core/telegram/keyboard"
	"github.com/m3rciful/jeepyq/internal/exam"
	"github.com/m3rciful/jeepyq/internal/menu"

	tele "gopkg.in/telebot.v4"
)

// OnQuestion serves "/q <main|adv> <year> <number>".
func (h *Handlers) OnQuestion(c tele.Context) error {
	k, year, n, ok := h.parseQuestionArgs(c.Args())
	if !ok {
		return tghelpers.SendText(c, menu.Usage(h.catalog))
	}
	return h.sendQuestion(c, k, year, n)
}

func (h *Handlers) parseQuestionArgs(args []string) (exam.Kind, int, int, bool) {
	if len(args) != 3 {
		return exam.KindUnknown, 0, 0, false
	}
	k, ok := exam.ParseKind(strings.ToLower(args[0]))
	if !ok {
		return exam.KindUnknown, 0, 0, false
	}
	year, err := strconv.Atoi(args[1])
	if err != nil || !h.catalog.HasYear(year) {
		return exam.KindUnknown, 0, 0, false
	}
	n, err := strconv.Atoi(args[2])
	if err != nil || !h.catalog.HasQuestion(n) {
		return exam.KindUnknown, 0, 0, false
	}
	return k, year, n, true
}

// OnReply serves a question number sent as a reply to a year menu. Exam and
// year come from the randyr_ button of the replied message. Other text is
// ignored.
func (h *Handlers) OnReply(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.ReplyTo == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.Text()))
	if err != nil {
		return nil
	}
	token, ok := keyboard.FindData(msg.ReplyTo.ReplyMarkup, func(data string) bool {
		return exam.Decode(data).Form == exam.FormRandomInYear
	})
	if !ok {
		return nil
	}
	state := exam.Decode(token)
	if !h.catalog.HasYear(state.Year) || !h.catalog.HasQuestion(n) {
		return tghelpers.SendText(c, menu.QuestionRange(h.catalog.MaxQuestions))
	}
	return h.sendQuestion(c, state.Kind, state.Year, n)
}
