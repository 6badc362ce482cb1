// draftgate is an OAuth2 authorization server guarding article publishing
// against a third-party content platform.
//
//	@title			DraftGate API
//	@version		1.0
//	@description	OAuth2 authorization server and token lifecycle manager for article publishing.
//	@BasePath		/
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/inkpress/draftgate/internal/auth/app"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
