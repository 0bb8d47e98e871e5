package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marmot/bot"
	"marmot/config"
	"marmot/utils/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	marmot, err := bot.NewMarmot(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	marmot.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Infof("Shutting down gracefully...")

	marmot.Stop()
	time.Sleep(1 * time.Second)
	log.Infof("Shutdown complete.")
}
