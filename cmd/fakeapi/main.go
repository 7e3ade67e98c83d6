// Package main runs an in-memory booking API for local development.
//
// Usage:
//
//	go run ./cmd/fakeapi
//	go run ./cmd/fakeapi --demo-email ann@example.com --demo-password s3cret!
//	WEDDINGWISE_API_URL=http://localhost:5000/api weddingwise login ...
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/di"
	"github.com/weddingwise/weddingwise-client/internal/logger"
)

var (
	envFile      = flag.String("env-file", "", "path to a .env file (default: ./.env)")
	demoName     = flag.String("demo-name", "Demo User", "name of the demo account")
	demoEmail    = flag.String("demo-email", "", "create a demo account with this email")
	demoPassword = flag.String("demo-password", "password1", "password of the demo account")
)

func main() {
	flag.Parse()

	injector := di.NewFakeAPIContainer(config.Overrides{EnvFile: *envFile})

	api, err := di.BootstrapFakeAPI(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start fake API: %v\n", err)
		di.Shutdown(injector, nil)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	if *demoEmail != "" {
		identity, err := api.SeedUser(*demoName, *demoEmail, *demoPassword)
		if err != nil {
			log.Error("Failed to create demo account", "email", *demoEmail, "error", err)
		} else {
			log.Info("Demo account ready", "user_id", identity.ID, "email", identity.Email)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down fake API...")
	di.Shutdown(injector, log)
	log.Info("Fake API stopped")
}
