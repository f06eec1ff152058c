package gormdb

import (
	"context"
	"errors"

	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb/po"
	"campodigital/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

type UserRepository struct {
	session    *Session
	translator *specification.GormTranslator
}

func NewUserRepository(session *Session) *UserRepository {
	return &UserRepository{
		session:    session,
		translator: specification.NewGormTranslator("users"),
	}
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if !u.IsNew() {
		return shared.NewInvalidStateError("user", "user is already stored; use Update")
	}
	userPO := po.FromUserDomain(u)
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Create(userPO).Error
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return user.NewEmailAlreadyExistsError(userPO.Email)
		}
		return translateError("user.save", err)
	}
	u.AssignID(userPO.ID)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*user.User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var userPO po.UserPO
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.First(&userPO, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.NewUserNotFoundError(id)
		}
		return nil, translateError("user.find", err)
	}
	return userPO.ToDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := r.find(ctx, user.ByEmailSpecification{Email: email}, 1)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return users[0], nil
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification) ([]*user.User, error) {
	return r.find(ctx, spec, 0)
}

func (r *UserRepository) find(ctx context.Context, spec shared.Specification, limit int) ([]*user.User, error) {
	scope, err := r.translator.Translate(spec)
	if err != nil {
		return nil, err
	}
	var userPOs []po.UserPO
	err = r.session.Run(ctx, func(db *gorm.DB) error {
		q := db.Scopes(scope).Order("created_at DESC").Order("id DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&userPOs).Error
	})
	if err != nil {
		return nil, translateError("user.find", err)
	}
	users := make([]*user.User, len(userPOs))
	for i := range userPOs {
		users[i] = userPOs[i].ToDomain()
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id uint64, patch user.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return r.updateColumns(ctx, id, po.UserPatchColumns(patch))
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	if hash == "" {
		return user.ErrEmptyPassword
	}
	return r.updateColumns(ctx, id, map[string]any{"password_hash": hash})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uint64, cols map[string]any) error {
	return r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		result := db.Model(&po.UserPO{}).Where("id = ?", id).Updates(cols)
		if result.Error != nil {
			return translateError("user.update", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}
		// MySQL reports 0 affected rows when values are unchanged
		var count int64
		if err := db.Model(&po.UserPO{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translateError("user.update", err)
		}
		if count == 0 {
			return user.NewUserNotFoundError(id)
		}
		return nil
	})
}

// Exists answers order.UserDirectory.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&po.UserPO{}).Where("id = ?", id).Count(&count).Error
	})
	if err != nil {
		return false, translateError("user.exists", err)
	}
	return count > 0, nil
}

var _ user.Repository = (*UserRepository)(nil)
