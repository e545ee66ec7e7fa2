package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-ledger/api"
	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/operator"
	"github.com/carson-networks/finance-ledger/internal/service"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("finance-ledger starting")

	dbStorage, err := storage.NewPostgresStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewPostgresStorage")
		return
	}
	defer dbStorage.Close()

	normalizer, err := money.NewNormalizer(envConfig.ReferenceCurrency)
	if err != nil {
		logger.WithError(err).Fatal("money.NewNormalizer")
		return
	}

	op := operator.NewOperator(dbStorage,
		operator.WithMaxAttempts(envConfig.CommitMaxAttempts),
		operator.WithBaseDelay(envConfig.CommitRetryBaseDelay),
		operator.WithLogger(logger),
	)
	svc := service.NewService(dbStorage, op, normalizer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Service: svc,
		Store:   dbStorage,
	}
	httpRest.Serve(ctx)
}
