package gormdb

import (
	"context"
	"fmt"
	"strconv"

	"campodigital/domain/review"
	"campodigital/domain/shared"
	"campodigital/infrastructure/persistence/gormdb/po"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	session *Session
}

func NewReviewRepository(session *Session) *ReviewRepository {
	return &ReviewRepository{session: session}
}

// Save checks every referenced row before inserting; SQLite has no foreign keys here.
func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	reviewPO := po.FromReviewDomain(rv)
	err := r.session.Transaction(ctx, func(ctx context.Context) error {
		db := r.session.DB(ctx)
		refs := []struct {
			entity string
			model  any
			id     *uint64
		}{
			{"reviewer", &po.UserPO{}, &reviewPO.ReviewerID},
			{"reviewed user", &po.UserPO{}, &reviewPO.ReviewedID},
			{"order", &po.OrderPO{}, reviewPO.OrderID},
			{"product", &po.ProductPO{}, reviewPO.ProductID},
		}
		for _, ref := range refs {
			if ref.id == nil {
				continue
			}
			ok, err := rowExists(db, ref.model, *ref.id)
			if err != nil {
				return err
			}
			if !ok {
				return shared.NewNotFoundError(ref.entity + " " + strconv.FormatUint(*ref.id, 10))
			}
		}
		return db.Create(reviewPO).Error
	})
	if err != nil {
		return translateError("review.save", err)
	}
	rv.AssignID(reviewPO.ID)
	return nil
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uint64) ([]review.View, error) {
	return r.find(ctx, "reviews.product_id = ?", productID)
}

func (r *ReviewRepository) FindByReviewed(ctx context.Context, userID uint64) ([]review.View, error) {
	return r.find(ctx, "reviews.reviewed_id = ?", userID)
}

func (r *ReviewRepository) find(ctx context.Context, where string, id uint64) ([]review.View, error) {
	var rows []po.ReviewViewRow
	err := r.session.Run(ctx, func(db *gorm.DB) error {
		return db.Table("reviews").
			Select("reviews.*, users.name AS reviewer_name").
			Joins("JOIN users ON users.id = reviews.reviewer_id").
			Where(where, id).
			Order("reviews.created_at DESC").
			Order("reviews.id DESC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, translateError("review.find", err)
	}
	views := make([]review.View, len(rows))
	for i := range rows {
		views[i] = rows[i].ToView()
	}
	return views, nil
}

// AverageRating is the arithmetic mean of the target's ratings, 0 without reviews.
func (r *ReviewRepository) AverageRating(ctx context.Context, target review.Target) (float64, error) {
	column := "product_id"
	if target.Kind == review.TargetUser {
		column = "reviewed_id"
	}
	row, err := r.session.FetchOne(ctx,
		"SELECT COALESCE(AVG(rating), 0) AS average FROM reviews WHERE "+column+" = ?", target.ID)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return toFloat(row.Get("average"))
}

// toFloat accepts the numeric shapes drivers return for AVG.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("unexpected average type %T", v)
}

var _ review.Repository = (*ReviewRepository)(nil)
