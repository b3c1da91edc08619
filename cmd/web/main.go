package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minaorangina/telefunken/config"
	"github.com/minaorangina/telefunken/players"
	"github.com/minaorangina/telefunken/server"
	"github.com/minaorangina/telefunken/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	level, err := players.ParseLevel(cfg.RobotLevel)
	if err != nil {
		logger.Fatal("bad robot level", zap.Error(err))
	}

	s := server.NewServer(store.NewInMemoryGameStore(), server.ServerOpts{
		Logger:        logger,
		StaticDir:     cfg.StaticDir,
		RobotLevel:    level,
		RobotDelay:    cfg.RobotDelay,
		PromptTimeout: cfg.PromptTimeout,
	})
	s.Addr = cfg.Addr()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", s.Addr))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
