package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}
	logger := logging.SetupLogging(env.LogLevel)

	dbStorage, err := storage.NewPostgresStorage(env)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewPostgresStorage")
		return
	}
	defer dbStorage.Close()

	result, err := storage.Migrate(dbStorage.DB, env.MigrationsPath)
	if err != nil {
		logger.WithError(err).Fatal("storage.Migrate")
		return
	}

	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
		"database":             env.PostgresAddress + ":" + env.PostgresPort + "/" + env.PostgresDB,
	}).Info("Migration status")
}
