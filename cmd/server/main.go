package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance/internal/config"
	"finance/internal/db"
	"finance/internal/events"
	"finance/internal/handlers"
	"finance/internal/logging"
	"finance/internal/services"
	"finance/internal/store"
	"finance/internal/websocket"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.WithError(err).Fatal("failed to apply migrations")
		}
	}

	organizations := store.NewOrganizationStore(database)
	members := store.NewMemberStore(database)
	accounts := store.NewAccountStore(database)
	categories := store.NewCategoryStore(database)
	budgets := store.NewBudgetStore(database)
	transactions := store.NewTransactionStore(database)
	exchange := store.NewExchangeStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)

	hub := websocket.NewHub()
	publisher := events.Fanout{hub}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect message broker")
		}
		defer amqpPublisher.Close()
		publisher = append(publisher, amqpPublisher)
	}

	ledger := services.NewLedgerService(txRunner, accounts, categories, transactions, audit, publisher, logger)
	catalog := services.NewCatalogService(txRunner, services.CatalogStores{
		Organizations: organizations,
		Members:       members,
		Accounts:      accounts,
		Categories:    categories,
		Budgets:       budgets,
		Exchange:      exchange,
		Audit:         audit,
	}, cfg.DefaultBaseCurrency, logger)
	reports := services.NewReportService(services.ReportStores{
		Organizations: organizations,
		Accounts:      accounts,
		Budgets:       budgets,
		Transactions:  transactions,
		Exchange:      exchange,
		Audit:         audit,
	})

	handler := handlers.New(cfg, logger, catalog, ledger, reports, members, hub)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"addr": server.Addr, "env": cfg.AppEnv}).Info("finance API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown error")
		os.Exit(1)
	}
	logger.Info("server stopped")
}
