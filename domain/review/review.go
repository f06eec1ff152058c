/*
Package review holds ratings users leave about each other and about products.
*/
package review

import (
	"fmt"
	"strings"
	"time"

	"campodigital/domain/shared"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating = fmt.Errorf("rating must be between %d and %d: %w", MinRating, MaxRating, shared.ErrInvalidInput)
	ErrInvalidParty  = fmt.Errorf("reviewer and reviewed user are required: %w", shared.ErrInvalidInput)
)

type Review struct {
	id         uint64
	reviewerID uint64
	reviewedID uint64
	rating     int
	comment    string
	orderID    *uint64
	productID  *uint64
	createdAt  time.Time
}

// Submission holds the fields accepted for a new review.
type Submission struct {
	ReviewerID uint64
	ReviewedID uint64
	Rating     int
	Comment    string
	OrderID    *uint64
	ProductID  *uint64
}

func NewReview(s Submission) (*Review, error) {
	if s.ReviewerID == 0 || s.ReviewedID == 0 {
		return nil, ErrInvalidParty
	}
	if s.Rating < MinRating || s.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	return &Review{
		reviewerID: s.ReviewerID,
		reviewedID: s.ReviewedID,
		rating:     s.Rating,
		comment:    strings.TrimSpace(s.Comment),
		orderID:    s.OrderID,
		productID:  s.ProductID,
		createdAt:  time.Now().UTC(),
	}, nil
}

func (r *Review) ID() uint64           { return r.id }
func (r *Review) ReviewerID() uint64   { return r.reviewerID }
func (r *Review) ReviewedID() uint64   { return r.reviewedID }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) OrderID() *uint64     { return r.orderID }
func (r *Review) ProductID() *uint64   { return r.productID }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) AssignID(id uint64)   { r.id = id }

// View is a review joined with the reviewer's name.
type View struct {
	ID           uint64
	ReviewerID   uint64
	ReviewerName string
	ReviewedID   uint64
	Rating       int
	Comment      string
	OrderID      *uint64
	ProductID    *uint64
	CreatedAt    time.Time
}

// TargetKind says what an average rating is computed over.
type TargetKind int

const (
	TargetProduct TargetKind = iota
	TargetUser
)

type Target struct {
	Kind TargetKind
	ID   uint64
}

func ForProduct(id uint64) Target { return Target{Kind: TargetProduct, ID: id} }
func ForUser(id uint64) Target    { return Target{Kind: TargetUser, ID: id} }
