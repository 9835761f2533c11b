package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sekolahmentor/smi-payment-api/internal/config"
	kafkax "github.com/sekolahmentor/smi-payment-api/internal/kafka"
	"github.com/sekolahmentor/smi-payment-api/internal/notify"
	"github.com/sekolahmentor/smi-payment-api/internal/orders"
	"github.com/sekolahmentor/smi-payment-api/internal/postgres"
	"github.com/sekolahmentor/smi-payment-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Repo:        &notify.Repo{DB: db},
		Cache:       &redisx.Cache{R: rdb},
		ServiceName: cfg.ServiceName + "-notifier",
		Log:         log.With(zap.String("component", "notifier")),
	}

	group := getenv("NOTIFIER_GROUP", "smi-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicPaymentStatus, workers,
		log.With(zap.String("component", "consumer")))

	go func() {
		log.Info("notifier consumer started",
			zap.String("group", group),
			zap.String("topic", orders.TopicPaymentStatus),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandlePaymentStatus); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
