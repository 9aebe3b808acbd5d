package main

import (
	"flag"
	"log"

	"github.com/hillkeeper/hillkeeper/cmd/bot"
	"github.com/hillkeeper/hillkeeper/internal/adapters/config"
	setupBot "github.com/hillkeeper/hillkeeper/internal/adapters/controller/discord/setup"
	"github.com/joho/godotenv"

	_ "time/tzdata"
)

func main() {
	send := flag.String("send", "", "manually run one notification flow (morning|evening) and exit")
	flag.Parse()

	// .env is optional; the token can also come from config.yaml or the environment
	_ = godotenv.Load()

	cfg := config.Get()
	b, err := bot.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	if err = setupBot.Setup(b); err != nil {
		log.Panic(err)
	}

	if *send != "" {
		if err = b.RunOnce(*send); err != nil {
			log.Panic(err)
		}
		return
	}

	if err = b.Start(); err != nil {
		log.Panic(err)
	}
}
