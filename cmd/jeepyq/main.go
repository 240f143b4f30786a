// Command jeepyq runs the JEE previous-year-questions Telegram bot.
package main

import (
	"log"

	"github.com/m3rciful/jeepyq/core/cmd"
	"github.com/m3rciful/jeepyq/internal/app"
	"github.com/m3rciful/jeepyq/internal/config"
)

func main() {
	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		EnvFiles:          []string{".env"},
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatal(err)
	}
}
