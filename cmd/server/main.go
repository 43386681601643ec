package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/simp-lee/userdesk/internal/app"
	"github.com/simp-lee/userdesk/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Optional .env overlay for local development; environment variables
	// loaded here are picked up by the config env provider.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Print("failed to load .env: ", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
