package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sjsilvers-api/handlers"
	"sjsilvers-api/internal/auth"
	"sjsilvers-api/internal/cart"
	"sjsilvers-api/internal/consul"
	"sjsilvers-api/internal/orders"
	"sjsilvers-api/internal/payment"
	"sjsilvers-api/internal/products"
	"sjsilvers-api/internal/stores/kafka"
	"sjsilvers-api/internal/stores/postgres"
	"sjsilvers-api/internal/users"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", slog.String("Error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := postgres.OpenDB()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	keys, err := auth.NewKeys(os.Getenv("JWT_SECRET"))
	if err != nil {
		return fmt.Errorf("failed to set up auth keys: %w", err)
	}

	productsConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cartConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	ordersConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	usersConf, err := users.NewConf(db)
	if err != nil {
		return err
	}

	var events *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		events, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			return fmt.Errorf("failed to set up kafka: %w", err)
		}
		defer events.Close()
	} else {
		slog.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	port, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid APP_PORT: %w", err)
	}

	if os.Getenv("CONSUL_DISABLE") == "" {
		client, err := consul.NewClient()
		if err != nil {
			return fmt.Errorf("failed to connect to consul: %w", err)
		}
		host := getEnv("APP_HOST", "localhost")
		if err := consul.RegisterService(client, "sjsilvers-api", host, port); err != nil {
			return fmt.Errorf("failed to register with consul: %w", err)
		}
	}

	engine := handlers.API("/api", handlers.Conf{
		Products: productsConf,
		Cart:     cartConf,
		Orders:   ordersConf,
		Users:    usersConf,
		Keys:     keys,
		Gateway:  payment.NewSimulated(),
		Events:   events,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("server started", slog.Int("Port", port))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		slog.Info("shutdown started", slog.String("Signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
