package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"coach-booking-api/internal/config"
	"coach-booking-api/internal/docstore"
	"coach-booking-api/internal/docstore/migrations"
	"coach-booking-api/internal/events"
	"coach-booking-api/internal/gateway"
	"coach-booking-api/internal/handler"
	"coach-booking-api/internal/logging"
	"coach-booking-api/internal/middleware"
	"coach-booking-api/internal/migration"
	"coach-booking-api/internal/rpc"
	"coach-booking-api/internal/store"
	"coach-booking-api/internal/tracing"
)

const serviceName = "coach-booking-api"

func main() {
	cfg := config.Load()
	log := logging.Setup(serviceName)
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.InitTracerProvider(ctx, serviceName, cfg.OtelEndpoint)
	if err != nil {
		log.Error("tracing", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	// document store
	docs, err := docstore.Open(ctx, cfg)
	if err != nil {
		log.Error("store", slog.String("backend", cfg.Backend), slog.Any("err", err))
		os.Exit(1)
	}
	defer docs.Close()
	log.Info("store connected", slog.String("backend", cfg.Backend))

	// schema
	if pg, ok := docs.(*docstore.Postgres); ok {
		if err := migrations.Up(ctx, pg.Pool()); err != nil {
			log.Warn("schema migration", slog.Any("err", err))
		}
	}

	pub := events.Open(cfg)
	defer pub.Close()

	st := store.New(docs, cfg.Collections)
	mig := migration.New(docs, cfg.Collections,
		migration.WithLogger(log),
		migration.WithPublisher(pub),
	)
	h := handler.New(st, mig, cfg.JWTSecret)

	// grpc server
	rps, burst := config.RateLimit()
	rl := middleware.NewRateLimiter(rps, burst)
	defer rl.Stop()
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(rl),
			middleware.Auth(cfg.JWTSecret),
		),
	)
	rpc.RegisterAdminServer(srv, h)
	reflection.Register(srv)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Error("listen", slog.Any("err", err))
		os.Exit(1)
	}
	go func() {
		log.Info("grpc listening", slog.String("port", cfg.GRPCPort))
		if err := srv.Serve(lis); err != nil {
			log.Error("grpc", slog.Any("err", err))
		}
	}()

	// json gateway -> forwards browser requests to grpc on localhost
	bridge, err := gateway.New("localhost:" + cfg.GRPCPort)
	if err != nil {
		log.Error("gateway", slog.Any("err", err))
		os.Exit(1)
	}
	defer bridge.Close()

	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           bridge.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("gateway listening", slog.String("port", cfg.WebPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http", slog.Any("err", err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(sctx)
	srv.GracefulStop()
}
