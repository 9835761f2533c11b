package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sekolahmentor/smi-payment-api/internal/config"
	"github.com/sekolahmentor/smi-payment-api/internal/midtrans"
	"github.com/sekolahmentor/smi-payment-api/internal/orders"
	"github.com/sekolahmentor/smi-payment-api/internal/postgres"
	"github.com/sekolahmentor/smi-payment-api/internal/worker"
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

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rec := &worker.Reconciler{
		Store:     &orders.Repo{DB: db},
		Gateway:   midtrans.New(cfg.MidtransServerKey, cfg.MidtransProduction),
		Interval:  cfg.ReconcileInterval,
		Threshold: cfg.StuckThreshold,
		Log:       log.With(zap.String("component", "reconciler")),
	}
	go rec.Run(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down reconciler...")
	cancel()
}
