package po

import (
	"time"

	"campodigital/domain/review"
)

type ReviewPO struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ReviewerID uint64    `gorm:"index;not null"`
	ReviewedID uint64    `gorm:"index;not null"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	OrderID    *uint64   `gorm:"index"`
	ProductID  *uint64   `gorm:"index"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (ReviewPO) TableName() string {
	return "reviews"
}

type ReviewViewRow struct {
	ReviewPO
	ReviewerName string
}

func FromReviewDomain(r *review.Review) *ReviewPO {
	return &ReviewPO{
		ID:         r.ID(),
		ReviewerID: r.ReviewerID(),
		ReviewedID: r.ReviewedID(),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		OrderID:    r.OrderID(),
		ProductID:  r.ProductID(),
		CreatedAt:  r.CreatedAt(),
	}
}

func (r *ReviewViewRow) ToView() review.View {
	return review.View{
		ID:           r.ID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		ReviewedID:   r.ReviewedID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		OrderID:      r.OrderID,
		ProductID:    r.ProductID,
		CreatedAt:    r.CreatedAt,
	}
}
