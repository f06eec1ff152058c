package gormdb

import (
	"time"

	"campodigital/config"
	"campodigital/domain/shared"
	"campodigital/infrastructure/persistence/retry"
)

type UnitOfWorkFactory struct {
	session     *Session
	retryConfig retry.Config
	txTimeout   time.Duration
}

func NewUnitOfWorkFactory(session *Session, retryConfig retry.Config, txTimeout time.Duration) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		session:     session,
		retryConfig: retryConfig,
		txTimeout:   txTimeout,
	}
}

// NewUnitOfWorkFactoryFromConfig reads retry and timeout settings from the database section.
func NewUnitOfWorkFactoryFromConfig(session *Session, dc config.DatabaseConfig) *UnitOfWorkFactory {
	return NewUnitOfWorkFactory(session, retry.FromRetryConfig(dc.Retry), dc.TransactionTimeout)
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.session)
	uow.SetRetryConfig(f.retryConfig)
	uow.SetTransactionTimeout(f.txTimeout)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
