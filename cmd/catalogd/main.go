package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/adminapi"
	"github.com/shopkite/catalog/internal/app"
	"github.com/shopkite/catalog/internal/webserver"
)

var (
	conffile = flag.String("c", "catalog.yml", "config file path")
	initdb   = flag.Bool("initdb", false, "create missing resource tables and exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		zap.S().Fatalf("application init failed: %s", err.Error())
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(); err != nil {
			zap.S().Fatalf("initdb failed: %s", err.Error())
		}
		zap.S().Info("resource tables ready")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	ws := webserver.New(cfg)
	server := adminapi.NewServer(application.Store(), application.Media(), cfg.Dynamo)
	server.AddHealthCheck("dynamo", application.Tables())
	server.AddHealthCheck("redis", application.Cache())
	server.RegisterRoutes(ws)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ws.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorf("web server shutdown: %s", err.Error())
		}
	}()

	if err := ws.Start(); err != nil && err != http.ErrServerClosed {
		zap.S().Fatalf("web server error: %s", err.Error())
	}
}
