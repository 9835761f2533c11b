package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sekolahmentor/smi-payment-api/internal/catalog"
	"github.com/sekolahmentor/smi-payment-api/internal/chatbot"
	"github.com/sekolahmentor/smi-payment-api/internal/config"
	"github.com/sekolahmentor/smi-payment-api/internal/httpx"
	kafkax "github.com/sekolahmentor/smi-payment-api/internal/kafka"
	"github.com/sekolahmentor/smi-payment-api/internal/midtrans"
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

	// Migrations
	if err := postgres.Migrate(cfg.MigrationsURL, cfg.PostgresDSN); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (satu producer per topic)
	prodOrders := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024,
		log.With(zap.String("component", "producer-order-created")))
	prodOrders.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPaymentStatus, 1024,
		log.With(zap.String("component", "producer-payment-status")))
	prodStatus.Start(ctx)

	// Handlers
	router := httpx.NewRouter()
	ph := &httpx.PaymentHandler{
		Store:           &orders.Repo{DB: db},
		Catalog:         &catalog.Repo{DB: db},
		Gateway:         midtrans.New(cfg.MidtransServerKey, cfg.MidtransProduction),
		Cache:           &redisx.Cache{R: rdb},
		CreatedProducer: prodOrders,
		StatusProducer:  prodStatus,
		ServerKey:       cfg.MidtransServerKey,
		MaxCartItems:    cfg.MaxCartItems,
		Service:         cfg.ServiceName,
		Log:             log.With(zap.String("component", "payment-handler")),
	}
	ph.Register(router)

	ch := &httpx.ChatHandler{Matcher: chatbot.NewMatcher(chatbot.DefaultRules, chatbot.DefaultFallback)}
	ch.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodOrders.Close() // tutup inbox -> flush & close writer
	prodStatus.Close()
	prodOrders.WaitClosed()
	prodStatus.WaitClosed()
	cancel()
}
