package cmd

import (
	catalogapp "campodigital/application/catalog"
	messageapp "campodigital/application/message"
	orderapp "campodigital/application/order"
	reviewapp "campodigital/application/review"
	userapp "campodigital/application/user"
	"campodigital/config"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/pkg/logger"

	"go.uber.org/zap"
)

// App holds one session and every application service built on it.
type App struct {
	Config      *config.Config
	Session     *gormdb.Session
	UnitOfWorks *gormdb.UnitOfWorkFactory
	Outbox      *gormdb.OutboxRepository

	Users    *userapp.ApplicationService
	Catalog  *catalogapp.ApplicationService
	Orders   *orderapp.ApplicationService
	Reviews  *reviewapp.ApplicationService
	Messages *messageapp.ApplicationService

	ownsSession bool
}

// Close releases the session when the builder opened it.
func (a *App) Close() error {
	if !a.ownsSession || a.Session == nil {
		return nil
	}
	if err := a.Session.Close(); err != nil {
		logger.Warn("Failed to close database session", zap.Error(err))
		return err
	}
	return nil
}
