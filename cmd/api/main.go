package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-order-management.git/internal/auth"
	"github.com/ariefcatur/go-order-management.git/internal/catalog"
	"github.com/ariefcatur/go-order-management.git/internal/config"
	"github.com/ariefcatur/go-order-management.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-order-management.git/internal/kafka"
	"github.com/ariefcatur/go-order-management.git/internal/notify"
	"github.com/ariefcatur/go-order-management.git/internal/orders"
	"github.com/ariefcatur/go-order-management.git/internal/postgres"
	"github.com/ariefcatur/go-order-management.git/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for status notifications
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	prod.Start(ctx)

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	orderSvc := &orders.Service{
		Store:     orderRepo,
		Customers: catalogRepo,
		Notifier:  &notify.Publisher{Producer: prod, Service: cfg.ServiceName},
	}
	authSvc := &auth.Service{
		Users:      &auth.Repo{DB: db},
		Secret:     cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}

	router := httpx.NewRouter()
	api := &httpx.API{
		JWTSecret: cfg.JWTSecret,
		Users:     &httpx.UsersHandler{Auth: authSvc},
		Customers: &httpx.CustomersHandler{Repo: catalogRepo, Orders: orderRepo},
		Products:  &httpx.ProductsHandler{Repo: catalogRepo},
		Orders:    &httpx.OrdersHandler{Service: orderSvc, Store: orderRepo, Redis: rdb},
		Invoices:  &httpx.InvoicesHandler{Store: orderRepo},
	}
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // stop accepting, flush remainder
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
