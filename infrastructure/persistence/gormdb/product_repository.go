package gormdb

import (
	"context"
	"errors"

	"campodigital/domain/product"
	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb/po"
	"campodigital/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

const productViewColumns = "products.*, users.name AS seller_name, users.phone AS seller_phone"

type ProductRepository struct {
	session    *Session
	translator *specification.GormTranslator
}

func NewProductRepository(session *Session) *ProductRepository {
	return &ProductRepository{
		session:    session,
		translator: specification.NewGormTranslator("products"),
	}
}

func (r *ProductRepository) views(db *gorm.DB) *gorm.DB {
	return db.Table("products").
		Select(productViewColumns).
		Joins("JOIN users ON users.id = products.user_id")
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	productPO := po.FromProductDomain(p)
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		if ok, err := rowExists(db, &po.UserPO{}, p.OwnerID()); err != nil {
			return err
		} else if !ok {
			return user.NewUserNotFoundError(p.OwnerID())
		}
		return db.Create(productPO).Error
	})
	if err != nil {
		if isForeignKeyError(err) {
			return user.NewUserNotFoundError(p.OwnerID())
		}
		return translateError("product.save", err)
	}
	p.AssignID(productPO.ID)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (*product.View, error) {
	var row po.ProductViewRow
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return r.views(db).Where("products.id = ?", id).Take(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, translateError("product.find", err)
	}
	return row.ToView(), nil
}

func (r *ProductRepository) FindBySpecification(ctx context.Context, spec shared.Specification) ([]*product.View, error) {
	scope, err := r.translator.Translate(spec)
	if err != nil {
		return nil, err
	}
	var rows []po.ProductViewRow
	err = r.session.Run(ctx, func(db *gorm.DB) error {
		return r.views(db).Scopes(scope).
			Order("products.created_at DESC").
			Order("products.id DESC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, translateError("product.find", err)
	}
	views := make([]*product.View, len(rows))
	for i := range rows {
		views[i] = rows[i].ToView()
	}
	return views, nil
}

func (r *ProductRepository) Update(ctx context.Context, id uint64, patch product.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		result := db.Model(&po.ProductPO{}).Where("id = ?", id).Updates(po.ProductPatchColumns(patch))
		if result.Error != nil {
			return translateError("product.update", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}
		ok, err := rowExists(db, &po.ProductPO{}, id)
		if err != nil {
			return err
		}
		if !ok {
			return product.NewProductNotFoundError(id)
		}
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		if ok, err := rowExists(db, &po.ProductPO{}, id); err != nil {
			return err
		} else if !ok {
			return product.NewProductNotFoundError(id)
		}

		var refs int64
		if err := db.Model(&po.OrderDetailPO{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return product.ErrProductInUse
		}

		if err := db.Where("product_id = ?", id).Delete(&po.ProductImagePO{}).Error; err != nil {
			return err
		}
		return db.Delete(&po.ProductPO{}, id).Error
	})
	if isForeignKeyError(err) {
		return product.ErrProductInUse
	}
	return translateError("product.delete", err)
}

func (r *ProductRepository) AddImage(ctx context.Context, img *product.Image) error {
	imagePO := po.FromImageDomain(img)
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		if ok, err := rowExists(db, &po.ProductPO{}, img.ProductID); err != nil {
			return err
		} else if !ok {
			return product.NewProductNotFoundError(img.ProductID)
		}
		if img.IsPrimary {
			if err := db.Model(&po.ProductImagePO{}).
				Where("product_id = ? AND is_primary = ?", img.ProductID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return db.Create(imagePO).Error
	})
	if err != nil {
		return translateError("product.add_image", err)
	}
	img.ID = imagePO.ID
	return nil
}

func (r *ProductRepository) Images(ctx context.Context, productID uint64) ([]product.Image, error) {
	var imagePOs []po.ProductImagePO
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Where("product_id = ?", productID).
			Order("is_primary DESC").
			Order("id ASC").
			Find(&imagePOs).Error
	})
	if err != nil {
		return nil, translateError("product.images", err)
	}
	images := make([]product.Image, len(imagePOs))
	for i := range imagePOs {
		images[i] = imagePOs[i].ToDomain()
	}
	return images, nil
}

func (r *ProductRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		var err error
		ok, err = rowExists(db, &po.ProductPO{}, id)
		return err
	})
	if err != nil {
		return false, translateError("product.exists", err)
	}
	return ok, nil
}

// rowExists counts rows of model with the given primary key.
func rowExists(db *gorm.DB, model any, id uint64) (bool, error) {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ product.Repository = (*ProductRepository)(nil)
