package handlers

import (
	"github.com/m3rciful/jeepyq/internal/exam"
	"github.com/m3rciful/jeepyq/internal/menu"
)

// Action is the kind of outbound call a response needs.
type Action int

const (
	// ActionNone sends nothing.
	ActionNone Action = iota
	// ActionEdit replaces the text and keyboard of the callback message.
	ActionEdit
	// ActionImage sends a question image.
	ActionImage
)

// Response is the outcome of resolving a navigation state.
type Response struct {
	Action Action
	// Screen is set for ActionEdit.
	Screen menu.Screen
	// Kind, Year and Question are set for ActionImage.
	Kind     exam.Kind
	Year     int
	Question int
}

// Resolve maps a decoded token to its response. Random forms draw the
// missing year and question here.
func (h *Handlers) Resolve(s exam.State) Response {
	switch s.Form {
	case exam.FormHome:
		return Response{Action: ActionEdit, Screen: menu.Root()}
	case exam.FormExam:
		return Response{Action: ActionEdit, Screen: menu.ExamMenu(s.Kind, h.catalog.Years())}
	case exam.FormYear:
		return Response{Action: ActionEdit, Screen: menu.YearMenu(s.Kind, s.Year)}
	case exam.FormRandom:
		return Response{
			Action:   ActionImage,
			Kind:     s.Kind,
			Year:     h.picker.SelectRandomYear(),
			Question: h.picker.SelectRandomQuestion(),
		}
	case exam.FormRandomInYear:
		return Response{
			Action:   ActionImage,
			Kind:     s.Kind,
			Year:     s.Year,
			Question: h.picker.SelectRandomQuestion(),
		}
	}
	return Response{Action: ActionNone}
}
