/*
Package review records ratings and computes averages for products and producers.
*/
package review

import (
	"context"
	"time"

	"campodigital/domain/review"
)

type ApplicationService struct {
	reviewRepo review.Repository
}

func NewApplicationService(reviewRepo review.Repository) *ApplicationService {
	return &ApplicationService{reviewRepo: reviewRepo}
}

// SubmitReviewRequest Submit review request DTO. OrderID and ProductID are optional.
type SubmitReviewRequest struct {
	ReviewerID uint64  `json:"reviewer_id"`
	ReviewedID uint64  `json:"reviewed_id"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
	OrderID    *uint64 `json:"order_id,omitempty"`
	ProductID  *uint64 `json:"product_id,omitempty"`
}

type ReviewResponse struct {
	ID           uint64    `json:"id"`
	ReviewerID   uint64    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	ReviewedID   uint64    `json:"reviewed_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	OrderID      *uint64   `json:"order_id,omitempty"`
	ProductID    *uint64   `json:"product_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Submit stores a review with a rating between 1 and 5 and returns its id.
func (s *ApplicationService) Submit(ctx context.Context, req SubmitReviewRequest) (uint64, error) {
	r, err := review.NewReview(review.Submission{
		ReviewerID: req.ReviewerID,
		ReviewedID: req.ReviewedID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		OrderID:    req.OrderID,
		ProductID:  req.ProductID,
	})
	if err != nil {
		return 0, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return 0, err
	}
	return r.ID(), nil
}

func (s *ApplicationService) ListProductReviews(ctx context.Context, productID uint64) ([]ReviewResponse, error) {
	views, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toResponses(views), nil
}

func (s *ApplicationService) ListUserReviews(ctx context.Context, userID uint64) ([]ReviewResponse, error) {
	views, err := s.reviewRepo.FindByReviewed(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(views), nil
}

// AverageRating is the mean rating of target, or 0 when it has no reviews.
func (s *ApplicationService) AverageRating(ctx context.Context, target review.Target) (float64, error) {
	return s.reviewRepo.AverageRating(ctx, target)
}

func (s *ApplicationService) ProductRating(ctx context.Context, productID uint64) (float64, error) {
	return s.AverageRating(ctx, review.ForProduct(productID))
}

func (s *ApplicationService) UserRating(ctx context.Context, userID uint64) (float64, error) {
	return s.AverageRating(ctx, review.ForUser(userID))
}

func toResponses(views []review.View) []ReviewResponse {
	out := make([]ReviewResponse, len(views))
	for i, v := range views {
		out[i] = ReviewResponse{
			ID:           v.ID,
			ReviewerID:   v.ReviewerID,
			ReviewerName: v.ReviewerName,
			ReviewedID:   v.ReviewedID,
			Rating:       v.Rating,
			Comment:      v.Comment,
			OrderID:      v.OrderID,
			ProductID:    v.ProductID,
			CreatedAt:    v.CreatedAt,
		}
	}
	return out
}
