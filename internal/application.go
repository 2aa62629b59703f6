package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	events, closeEvents, err := initEvents(ctx, log, conf.Redis)
	if err != nil {
		return err
	}
	defer closeEvents()

	rooms := usecase.NewRegistry(logger, conf.Game.BoardSize)
	gameManager := usecase.NewGameManager(logger, rooms, events)

	wsServer := websocket.New(logger, gameManager, websocket.Options{
		AllowedOrigins: conf.WebSocket.AllowedOrigins,
		ReadLimit:      conf.WebSocket.ReadLimit,
		WriteTimeout:   conf.WebSocket.WriteTimeout,
	})

	router := rest.NewRouter(ginMode(conf.LogLevel), wsServer.HandleRoom)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "route", rest.RoomRoute)

	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down", "rooms", rooms.Len())

	return nil
}

// initEvents connects the Redis event feed when it is enabled.
func initEvents(ctx context.Context, log *slog.Logger, conf config.Redis) (repository.EventRepository, func(), error) {
	if !conf.Enabled {
		log.Info("Redis event feed disabled")
		return repository.NewNopEventRepository(), func() {}, nil
	}

	redisAddrString := conf.GetRedisAddr()
	if conf.Host == "" || conf.Port == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Publishing room events to Redis", "addr", redisAddrString, "prefix", conf.ChannelPrefix)

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewEventRepository(redisStorage.Connection, conf.ChannelPrefix), closeFn, nil
}

func ginMode(logLevel string) string {
	if logLevel == "debug" {
		return gin.DebugMode
	}

	return gin.ReleaseMode
}
