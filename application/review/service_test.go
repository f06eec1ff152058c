package review_test

import (
	"context"
	"testing"

	appreview "campodigital/application/review"
	"campodigital/domain/review"
	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/infrastructure/persistence/gormdb/gormdbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewsAndRatings(t *testing.T) {
	s := gormdbtest.New(t)
	svc := appreview.NewApplicationService(gormdb.NewReviewRepository(s))
	ctx := context.Background()

	farmer := gormdbtest.SeedUser(t, s, "juan", user.RoleProducer)
	maria := gormdbtest.SeedUser(t, s, "maria", user.RoleConsumer)
	pedro := gormdbtest.SeedUser(t, s, "pedro", user.RoleConsumer)
	yuca := gormdbtest.SeedProduct(t, s, farmer, "Yuca", "2500", "80")

	avg, err := svc.ProductRating(ctx, yuca)
	require.NoError(t, err)
	assert.Zero(t, avg)
	avg, err = svc.UserRating(ctx, farmer)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = svc.Submit(ctx, appreview.SubmitReviewRequest{ReviewerID: maria, ReviewedID: farmer, Rating: 5, Comment: "Muy fresca", ProductID: &yuca})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, appreview.SubmitReviewRequest{ReviewerID: pedro, ReviewedID: farmer, Rating: 4, ProductID: &yuca})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, appreview.SubmitReviewRequest{ReviewerID: pedro, ReviewedID: farmer, Rating: 2})
	require.NoError(t, err)

	avg, err = svc.ProductRating(ctx, yuca)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)
	avg, err = svc.UserRating(ctx, farmer)
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3.0, avg, 1e-9)

	byProduct, err := svc.ListProductReviews(ctx, yuca)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)
	assert.Equal(t, "pedro", byProduct[0].ReviewerName)
	assert.Equal(t, "maria", byProduct[1].ReviewerName)
	assert.Equal(t, "Muy fresca", byProduct[1].Comment)

	byUser, err := svc.ListUserReviews(ctx, farmer)
	require.NoError(t, err)
	assert.Len(t, byUser, 3)
}

func TestSubmitValidates(t *testing.T) {
	s := gormdbtest.New(t)
	svc := appreview.NewApplicationService(gormdb.NewReviewRepository(s))
	ctx := context.Background()
	farmer := gormdbtest.SeedUser(t, s, "juan", user.RoleProducer)
	maria := gormdbtest.SeedUser(t, s, "maria", user.RoleConsumer)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(ctx, appreview.SubmitReviewRequest{ReviewerID: maria, ReviewedID: farmer, Rating: rating})
		assert.ErrorIs(t, err, review.ErrInvalidRating, "rating %d", rating)
	}

	missing := uint64(999)
	_, err := svc.Submit(ctx, appreview.SubmitReviewRequest{ReviewerID: maria, ReviewedID: farmer, Rating: 3, ProductID: &missing})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.Submit(ctx, appreview.SubmitReviewRequest{ReviewerID: maria, ReviewedID: missing, Rating: 3})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
