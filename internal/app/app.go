package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/streamhive/server/internal/controller"
	connInmemory "github.com/streamhive/server/internal/repository/connection/inmemory"
	frameInmemory "github.com/streamhive/server/internal/repository/frame/inmemory"
	roomRedis "github.com/streamhive/server/internal/repository/room/redis"
	"github.com/streamhive/server/internal/service/room"
	"github.com/streamhive/server/pkg/ctxlogger"
	"github.com/streamhive/server/pkg/redisclient"
)

type AppConfig struct {
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	LogLevel      string        `json:"log_level"`
	PingInterval  time.Duration `json:"ping_interval"`
	FrameInterval time.Duration `json:"frame_interval"`
	WriteTimeout  time.Duration `json:"write_timeout"`
	RedisHost     string        `json:"redis_host"`
	RedisPort     int           `json:"redis_port"`
	RedisPassword string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.PingInterval <= 0 {
		return fmt.Errorf("ping interval must be greater than 0")
	}
	if cfg.FrameInterval <= 0 {
		return fmt.Errorf("frame interval must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	roomRepo := roomRedis.NewRepo(rc, logger)
	connRepo := connInmemory.NewRepo(logger)
	frameRepo := frameInmemory.NewRepo(logger)
	roomService := room.NewService(roomRepo, connRepo, frameRepo, logger)
	ctrl := controller.NewController(roomService, &controller.Config{
		PingInterval:  cfg.PingInterval,
		FrameInterval: cfg.FrameInterval,
		WriteTimeout:  cfg.WriteTimeout,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: ctrl.GetMux(),
	}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
