package handlers

import (
	tg "github.com/m3rciful/jeepyq/core/telegram"
	"github.com/m3rciful/jeepyq/core/telegram/router"
)

// Routes binds the registry to telebot endpoints: commands (admin commands
// checked against adminID), callbacks keyed by token form and acknowledged
// before handling, then text replies.
func Routes(reg *tg.Registry, adminID int64) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: adminID})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{Key: CallbackKey, Ack: true}))
	return append(routes, router.TextRoutes(reg, router.TextOptions{})...)
}
