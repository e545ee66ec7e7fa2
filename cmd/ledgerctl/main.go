package main

import (
	"context"
	"fmt"
	"os"

	"github.com/carson-networks/finance-ledger/internal/commands"
	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/operator"
	"github.com/carson-networks/finance-ledger/internal/service"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

func openPostgres(context.Context) (*service.Service, func(), error) {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger := logging.SetupLogging(env.LogLevel)
	logger.SetOutput(os.Stderr)

	dbStorage, err := storage.NewPostgresStorage(env)
	if err != nil {
		return nil, nil, err
	}

	normalizer, err := money.NewNormalizer(env.ReferenceCurrency)
	if err != nil {
		_ = dbStorage.Close()
		return nil, nil, err
	}

	op := operator.NewOperator(dbStorage,
		operator.WithMaxAttempts(env.CommitMaxAttempts),
		operator.WithBaseDelay(env.CommitRetryBaseDelay),
		operator.WithLogger(logger),
	)

	return service.NewService(dbStorage, op, normalizer), func() { _ = dbStorage.Close() }, nil
}

func main() {
	if err := commands.NewRootCommand(openPostgres).Execute(); err != nil {
		os.Exit(1)
	}
}
