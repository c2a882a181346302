package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	slogmulti "github.com/samber/slog-multi"

	"github.com/dmitrijs2005/userconsole/internal/demoapi"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	apiKey := flag.String("api-key", "", "require this x-api-key header")
	requireToken := flag.Bool("require-token", false, "reject /users calls without a token from /login")
	perPage := flag.Int("per-page", demoapi.DefaultPerPage, "users per page")
	flag.Parse()

	logger := slog.New(slogmulti.Fanout(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	srv := demoapi.New(demoapi.Options{
		PerPage:      *perPage,
		APIKey:       *apiKey,
		RequireToken: *requireToken,
		Logger:       logger,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		_ = srv.Close()
	}()

	logger.Info("demo user API listening", "addr", *addr, "base", "http://"+*addr+demoapi.DefaultBasePath)
	if err := srv.Start(*addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
