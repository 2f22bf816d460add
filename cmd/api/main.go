package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/lendbook/loan-service/internal/config"
	"github.com/lendbook/loan-service/internal/handler"
	"github.com/lendbook/loan-service/internal/integrations/cbr"
	"github.com/lendbook/loan-service/internal/middleware"
	"github.com/lendbook/loan-service/internal/repository"
	"github.com/lendbook/loan-service/internal/scheduler"
	"github.com/lendbook/loan-service/internal/service"
	"github.com/lendbook/loan-service/internal/utils/email"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger)
	h, err := handler.NewHandler(svc, logger)
	if err != nil {
		logger.Fatalf("Failed to build handler: %v", err)
	}
	cbrClient := cbr.NewClient(cfg, logger)

	// Outstanding-loans report; email delivery only with SMTP configured
	var sender *email.Sender
	if cfg.SMTPHost != "" && cfg.ReportEmail != "" {
		sender = email.NewSender(cfg, logger)
	}
	sched := scheduler.New(repo, sender, cfg.ReportCron, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	if cfg.RedisAddr != "" {
		limiter := middleware.NewRateLimiter(cfg.RedisAddr, cfg.RateLimit, time.Duration(cfg.RateLimitSeconds)*time.Second, logger)
		r.Use(limiter.Middleware)
	}
	r.HandleFunc("/lend", h.Lend).Methods("POST")
	r.HandleFunc("/payment", h.Payment).Methods("POST")
	r.HandleFunc("/ledger/{loan_id}", h.Ledger).Methods("GET")
	r.HandleFunc("/overview/{customer_id}", h.Overview).Methods("GET")
	// Central-bank key rate, the pricing reference for new loans
	r.HandleFunc("/key-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := cbrClient.GetKeyRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get key rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"key_rate": rate})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatalf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}
