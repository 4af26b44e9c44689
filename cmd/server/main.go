package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ballerhq/sportmate/internal/api"
	"github.com/ballerhq/sportmate/internal/config"
	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/moderation"
	"github.com/ballerhq/sportmate/internal/server"
	"github.com/ballerhq/sportmate/internal/stats"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	signingKey     string
	uploadDir      string
	allowedOrigins stringSliceFlag
)

func main() {
	logger := log.New(os.Stderr, "[sportmate] ", log.LstdFlags)

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatal("load env:", err)
	}

	flag.StringVar(&addr, "addr", env.ServerAddr, "server address")
	flag.StringVar(&dsn, "dsn", env.DatabaseDSN, "database connection string")
	flag.StringVar(&signingKey, "signing-key", env.SigningKey, "base64 encoded token signing key")
	flag.StringVar(&uploadDir, "upload-dir", env.UploadDir, "directory for verification document uploads")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	if len(allowedOrigins) == 0 {
		allowedOrigins = env.AllowedOrigins
	}

	cfg, err := config.NewConfig(addr, dsn, signingKey, allowedOrigins, uploadDir)
	if err != nil {
		logger.Fatal("config:", err)
	}

	if err := database.Migrate(cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate:", err)
	}

	dbConn, err := database.NewPgSportMateRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Fatal("db close:", err)
		}
	}()

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	chatServer, err := server.NewChatServer(logger, dbConn, statsUpdater)
	if err != nil {
		logger.Fatal("new chat server:", err)
	}

	filter, err := moderation.NewFilter(moderation.BannedTerms)
	if err != nil {
		logger.Fatal("moderation filter:", err)
	}

	srv := api.NewSportMateApp(mux, logger, chatServer, dbConn, filter, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	go chatServer.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down chat server...")
	if err := chatServer.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("chat server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
