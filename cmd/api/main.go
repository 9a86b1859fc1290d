package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-gin-user-admin/internal/app"
	"go-gin-user-admin/internal/core/server"
	"go-gin-user-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}
	defer a.Close()

	hc := a.Cfg.App.HTTP
	srv := server.BuildServer(hc, router.NewAPIEngine(a.Deps), a.Log)

	// 启动日志
	host4human := hc.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + server.Addr(host4human, hc.Port)
	a.Log.Info("user api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	if err := server.Run(ctx, srv, a.Log); err != nil {
		a.Log.Error("user api stopped with error", zap.Error(err))
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("user api stopped gracefully")
}
