package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/pactforge/pact-consumer/internal/app/configuration"
	"github.com/pactforge/pact-consumer/internal/app/mockservice"
)

func main() {
	config, err := configuration.NewFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	if level, err := log.ParseLevel(config.LogLevel); err == nil {
		log.SetLevel(level)
	}

	e := echo.New()
	e.HideBanner = true
	mockservice.SetupRoutes(e, mockservice.New(), config.PactDir)

	go func() {
		address := fmt.Sprintf(":%d", config.AdminPort)
		log.Infof("serving mock message service on %s", address)
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if err := e.Shutdown(context.Background()); err != nil {
		log.Error(err)
	}
}
