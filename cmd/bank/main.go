package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"banking-os-go/internal/common"
	"banking-os-go/internal/config"
	"banking-os-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	showGantt := flag.Bool("gantt", true, "Print the Gantt chart after every operation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	s := session.New(services.Dispatcher)
	c := newConsole(os.Stdin, os.Stdout, s, services.Dispatcher, *showGantt)
	if err := c.run(ctx); err != nil && ctx.Err() == nil {
		zap.L().Error("Session ended with error", zap.Error(err))
	}
}
