package cmd

import (
	"context"
	"fmt"

	catalogapp "campodigital/application/catalog"
	messageapp "campodigital/application/message"
	orderapp "campodigital/application/order"
	reviewapp "campodigital/application/review"
	userapp "campodigital/application/user"
	"campodigital/config"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/pkg/logger"

	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg     *config.Config
	session *gormdb.Session
	hasher  user.PasswordHasher
	migrate bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithSession uses an already opened session instead of connecting from config.
// The caller keeps ownership of it.
func (b *AppBuilder) WithSession(s *gormdb.Session) *AppBuilder {
	b.session = s
	return b
}

// WithHasher replaces the bcrypt hasher built from security.bcrypt_cost
func (b *AppBuilder) WithHasher(h user.PasswordHasher) *AppBuilder {
	b.hasher = h
	return b
}

// WithMigrations migrates the schema before the services are built
func (b *AppBuilder) WithMigrations() *AppBuilder {
	b.migrate = true
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("driver", b.cfg.Database.Driver))

	session, owns := b.session, false
	if session == nil {
		s, err := gormdb.Connect(ctx, b.cfg.Database)
		if err != nil {
			return nil, err
		}
		session, owns = s, true
	}

	if b.migrate {
		if err := gormdb.Migrate(ctx, session); err != nil {
			if owns {
				_ = session.Close()
			}
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	hasher := b.hasher
	if hasher == nil {
		hasher = user.NewBcryptHasher(b.cfg.Security.BcryptCost)
	}

	userRepo := gormdb.NewUserRepository(session)
	productRepo := gormdb.NewProductRepository(session)
	orderRepo := gormdb.NewOrderRepository(session)
	uows := gormdb.NewUnitOfWorkFactoryFromConfig(session, b.cfg.Database)

	return &App{
		Config:      b.cfg,
		Session:     session,
		UnitOfWorks: uows,
		Outbox:      gormdb.NewOutboxRepository(session),
		Users:       userapp.NewApplicationService(userRepo, hasher, uows),
		Catalog:     catalogapp.NewApplicationService(productRepo),
		Orders:      orderapp.NewApplicationService(orderRepo, userRepo, productRepo, uows),
		Reviews:     reviewapp.NewApplicationService(gormdb.NewReviewRepository(session)),
		Messages:    messageapp.NewApplicationService(gormdb.NewMessageRepository(session)),
		ownsSession: owns,
	}, nil
}
