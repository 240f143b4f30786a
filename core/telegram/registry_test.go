package telegram

import (
	"testing"

	"github.com/m3rciful/jeepyq/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "menu"})
	r.RegisterCommand("/q", commands.Command{Handler: noop, Description: "question", Aliases: []string{"question"}})
	r.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "stats", AdminOnly: true})
	r.RegisterCommand("nostart", commands.Command{Handler: noop, Description: "skipped"})
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "duplicate"})

	if got := len(r.Commands()); got != 3 {
		t.Fatalf("commands = %d, want 3", got)
	}
	public := r.ListCommands(true)
	if len(public) != 2 || public[0].Text != "q" || public[1].Text != "start" {
		t.Fatalf("public commands = %+v", public)
	}
	if r.Commands()["/start"].Description != "menu" {
		t.Fatal("duplicate registration must not replace the first")
	}
	key, _, ok := r.LookupCommand("question")
	if !ok || key != "/q" {
		t.Fatalf("alias lookup = %q %v", key, ok)
	}
}

func TestRegistryCallbacks(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCallback("year", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCallback("year", noop); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := r.RegisterCallback("", noop); err == nil {
		t.Fatal("expected invalid key error")
	}
	if _, ok := r.GetCallback("year"); !ok {
		t.Fatal("callback not found")
	}
	if got := r.ListCallbacks(); len(got) != 1 || got[0] != "year" {
		t.Fatalf("callbacks = %v", got)
	}
	if r.CallbackNotFound() != nil {
		t.Fatal("unknown callbacks must have no default reply")
	}
	r.SetCallbackNotFound(noop)
	if r.CallbackNotFound() == nil {
		t.Fatal("fallback not stored")
	}
}
