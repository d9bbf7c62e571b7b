package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/atelier/backoffice/internal/infrastructure/logger"
	"github.com/atelier/backoffice/internal/mockapi"
	"go.uber.org/zap"
)

func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "debug", Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	server := mockapi.NewServer(log)
	if err := server.Run(addr); err != nil {
		log.Fatal("Mock API stopped", zap.Error(err))
	}
}
