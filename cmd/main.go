package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	restctx "github.com/dtroode/accounts-server/internal/api/rest/context"
	"github.com/dtroode/accounts-server/internal/api/rest/router"
	restServer "github.com/dtroode/accounts-server/internal/api/rest/server"
	"github.com/dtroode/accounts-server/internal/config"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/password"
	"github.com/dtroode/accounts-server/internal/repository/postgres"
	"github.com/dtroode/accounts-server/internal/server"
	"github.com/dtroode/accounts-server/internal/service"
	"github.com/dtroode/accounts-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.Environment)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to reach database", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTLMinutes)
	hasher := password.NewHasher(password.Params{
		MemoryCost: cfg.Password.MemoryCost,
		TimeCost:   cfg.Password.TimeCost,
		Lanes:      cfg.Password.Lanes,
		Length:     cfg.Password.Length,
	})

	userService := service.NewUsers(userRepo, tokenManager, hasher, logger)
	ctxMgr := restctx.NewManager()

	r := router.New(userService, userRepo, tokenManager, ctxMgr, logger, buildVersion)
	httpServer := restServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
