package gormdb_test

import (
	"context"
	"testing"
	"time"

	"campodigital/domain/message"
	"campodigital/domain/order"
	"campodigital/domain/product"
	"campodigital/domain/review"
	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/infrastructure/persistence/gormdb/gormdbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	session  *gormdb.Session
	users    *gormdb.UserRepository
	products *gormdb.ProductRepository
	orders   *gormdb.OrderRepository
	reviews  *gormdb.ReviewRepository
	messages *gormdb.MessageRepository

	farmer   uint64
	consumer uint64
	yuca     uint64
	platano  uint64
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.session = gormdbtest.New(s.T())
	s.users = gormdb.NewUserRepository(s.session)
	s.products = gormdb.NewProductRepository(s.session)
	s.orders = gormdb.NewOrderRepository(s.session)
	s.reviews = gormdb.NewReviewRepository(s.session)
	s.messages = gormdb.NewMessageRepository(s.session)

	s.farmer = gormdbtest.SeedUser(s.T(), s.session, "juan", user.RoleProducer)
	s.consumer = gormdbtest.SeedUser(s.T(), s.session, "maria", user.RoleConsumer)
	s.yuca = gormdbtest.SeedProduct(s.T(), s.session, s.farmer, "Yuca", "2500", "80")
	s.platano = gormdbtest.SeedProduct(s.T(), s.session, s.farmer, "Platano", "3000", "100")
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *RepositorySuite) placeOrder() *order.Order {
	o, err := order.NewOrder(order.Placement{
		BuyerID:  s.consumer,
		SellerID: s.farmer,
		Lines: []order.Line{
			{ProductID: s.yuca, Quantity: dec("5"), UnitPrice: dec("2500")},
			{ProductID: s.platano, Quantity: dec("5"), UnitPrice: dec("3000")},
		},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.orders.Save(s.ctx, o))
	return o
}

// users

func (s *RepositorySuite) TestUserSaveAndFind() {
	u, err := s.users.FindByID(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Equal("juan@example.com", u.Email().Value())
	s.Equal(user.RoleProducer, u.Role())

	byEmail, err := s.users.FindByEmail(s.ctx, "  JUAN@example.com ")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Equal(s.farmer, byEmail.ID())

	missing, err := s.users.FindByEmail(s.ctx, "nadie@example.com")
	s.NoError(err)
	s.Nil(missing)

	_, err = s.users.FindByID(s.ctx, 999)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *RepositorySuite) TestUserDuplicateEmail() {
	u, err := user.NewUser(user.Registration{Email: "juan@example.com", PasswordHash: "h", Name: "Otro", Role: "consumer"})
	s.Require().NoError(err)
	err = s.users.Save(s.ctx, u)
	s.ErrorIs(err, user.ErrEmailAlreadyExists)
	s.ErrorIs(err, shared.ErrConflict)
	s.Zero(u.ID())
}

func (s *RepositorySuite) TestUserRoleSpecificationReadsLegacyRows() {
	_, err := s.session.Exec(s.ctx,
		"INSERT INTO users (email, password_hash, name, user_type, created_at) VALUES (?, ?, ?, ?, ?)",
		"viejo@example.com", "h", "Viejo", "agricultor", time.Now().UTC())
	s.Require().NoError(err)

	producers, err := s.users.FindBySpecification(s.ctx, user.Producers())
	s.Require().NoError(err)
	s.Len(producers, 2)
	for _, p := range producers {
		s.Equal(user.RoleProducer, p.Role())
	}

	consumers, err := s.users.FindBySpecification(s.ctx, user.Consumers())
	s.Require().NoError(err)
	s.Len(consumers, 1)
}

func (s *RepositorySuite) TestUserUpdate() {
	s.ErrorIs(s.users.Update(s.ctx, s.farmer, user.Patch{}), user.ErrEmptyPatch)

	name, bio := "Juan Perez", "Cultivo yuca"
	loc := user.GeoPoint{Lat: 4.71, Lng: -74.07}
	s.Require().NoError(s.users.Update(s.ctx, s.farmer, user.Patch{Name: &name, Bio: &bio, Location: &loc}))

	u, err := s.users.FindByID(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Equal(name, u.Name())
	s.Equal(bio, u.Bio())
	s.Require().NotNil(u.Location())
	s.InDelta(4.71, u.Location().Lat, 1e-6)
	s.Equal("3001234567", u.Phone(), "untouched")

	s.ErrorIs(s.users.Update(s.ctx, 999, user.Patch{Name: &name}), shared.ErrNotFound)

	s.Require().NoError(s.users.UpdatePasswordHash(s.ctx, s.farmer, "new-hash"))
	u, err = s.users.FindByID(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Equal("new-hash", u.PasswordHash())
}

// products

func (s *RepositorySuite) TestProductSaveRequiresOwner() {
	p, err := product.NewProduct(product.Listing{OwnerID: 999, Name: "Mango", Price: dec("1000")})
	s.Require().NoError(err)
	s.ErrorIs(s.products.Save(s.ctx, p), shared.ErrNotFound)
}

func (s *RepositorySuite) TestProductViewJoinsSeller() {
	v, err := s.products.FindByID(s.ctx, s.yuca)
	s.Require().NoError(err)
	s.Equal("Yuca", v.Name())
	s.Equal("juan", v.SellerName)
	s.Equal("3001234567", v.SellerPhone)
	s.Equal("2500.00", v.Price().String())
	s.Equal(product.StatusAvailable, v.Status())

	_, err = s.products.FindByID(s.ctx, 999)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *RepositorySuite) TestProductSpecifications() {
	organic, err := product.NewProduct(product.Listing{
		OwnerID: s.farmer, Name: "Mango", Price: dec("4000"), Quantity: dec("10"), Category: "frutas", Organic: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.products.Save(s.ctx, organic))

	inactive := product.StatusInactive
	s.Require().NoError(s.products.Update(s.ctx, s.platano, product.Patch{Status: &inactive}))

	avail, err := s.products.FindBySpecification(s.ctx, product.AvailableInCategory("tuberculos"))
	s.Require().NoError(err)
	s.Require().Len(avail, 1)
	s.Equal(s.yuca, avail[0].ID())

	notOrganic, err := s.products.FindBySpecification(s.ctx, shared.Not(product.OrganicSpecification{Organic: true}))
	s.Require().NoError(err)
	s.Len(notOrganic, 2)

	either, err := s.products.FindBySpecification(s.ctx, shared.Or(
		product.ByCategorySpecification{Category: "frutas"},
		product.ByStatusSpecification{Status: product.StatusInactive},
	))
	s.Require().NoError(err)
	s.Require().Len(either, 2)
	s.Equal(organic.ID(), either[0].ID(), "newest first")

	mine, err := s.products.FindBySpecification(s.ctx, product.ByOwnerSpecification{OwnerID: s.farmer})
	s.Require().NoError(err)
	s.Len(mine, 3)
}

func (s *RepositorySuite) TestProductUpdate() {
	s.ErrorIs(s.products.Update(s.ctx, s.yuca, product.Patch{}), product.ErrEmptyPatch)

	price := dec("2750.5")
	s.Require().NoError(s.products.Update(s.ctx, s.yuca, product.Patch{Price: &price}))
	v, err := s.products.FindByID(s.ctx, s.yuca)
	s.Require().NoError(err)
	s.Equal("2750.50", v.Price().String())

	s.ErrorIs(s.products.Update(s.ctx, 999, product.Patch{Price: &price}), shared.ErrNotFound)
}

func (s *RepositorySuite) TestProductImagesKeepOnePrimary() {
	first, err := product.NewImage(s.yuca, "https://img.example.com/1.jpg", true)
	s.Require().NoError(err)
	s.Require().NoError(s.products.AddImage(s.ctx, first))
	extra, err := product.NewImage(s.yuca, "https://img.example.com/2.jpg", false)
	s.Require().NoError(err)
	s.Require().NoError(s.products.AddImage(s.ctx, extra))
	second, err := product.NewImage(s.yuca, "https://img.example.com/3.jpg", true)
	s.Require().NoError(err)
	s.Require().NoError(s.products.AddImage(s.ctx, second))

	images, err := s.products.Images(s.ctx, s.yuca)
	s.Require().NoError(err)
	s.Require().Len(images, 3)
	s.Equal(second.ID, images[0].ID)
	primaries := 0
	for _, img := range images {
		if img.IsPrimary {
			primaries++
		}
	}
	s.Equal(1, primaries)

	orphan, err := product.NewImage(999, "https://img.example.com/x.jpg", false)
	s.Require().NoError(err)
	s.ErrorIs(s.products.AddImage(s.ctx, orphan), shared.ErrNotFound)
}

func (s *RepositorySuite) TestProductDelete() {
	img, err := product.NewImage(s.yuca, "https://img.example.com/1.jpg", true)
	s.Require().NoError(err)
	s.Require().NoError(s.products.AddImage(s.ctx, img))
	s.placeOrder()

	s.ErrorIs(s.products.Delete(s.ctx, s.yuca), product.ErrProductInUse)

	spare := gormdbtest.SeedProduct(s.T(), s.session, s.farmer, "Aguacate", "1000", "3")
	s.Require().NoError(s.products.Delete(s.ctx, spare))
	ok, err := s.products.Exists(s.ctx, spare)
	s.Require().NoError(err)
	s.False(ok)
	s.ErrorIs(s.products.Delete(s.ctx, spare), shared.ErrNotFound)
}

// orders

func (s *RepositorySuite) TestOrderSaveAndLoad() {
	o := s.placeOrder()
	s.NotZero(o.ID())
	for _, d := range o.Details() {
		s.NotZero(d.ID())
	}

	loaded, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Equal("27500.00", loaded.Total().String())
	s.Require().Len(loaded.Details(), 2)
	s.Equal("12500.00", loaded.Details()[0].Subtotal().String())
	s.True(loaded.ReconcileTotal())
	s.Equal(order.StatusPending, loaded.Status())
	s.Equal(order.PaymentPending, loaded.PaymentStatus())
	s.Equal(order.PaymentMethodCash, loaded.PaymentMethod())

	view, err := s.orders.FindViewByID(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Equal("maria", view.BuyerName)
	s.Equal("juan", view.SellerName)
	s.Equal("27500.00", view.Total.StringFixed(2))

	details, err := s.orders.FindDetails(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Require().Len(details, 2)
	s.Equal("Yuca", details[0].ProductName)
	s.Equal("kg", details[0].Unit)
	s.Equal("15000.00", details[1].Subtotal.StringFixed(2))

	_, err = s.orders.FindViewByID(s.ctx, 999)
	s.ErrorIs(err, shared.ErrNotFound)
}

func (s *RepositorySuite) TestOrderLists() {
	first := s.placeOrder()
	second := s.placeOrder()

	bought, err := s.orders.ListByBuyer(s.ctx, s.consumer)
	s.Require().NoError(err)
	s.Require().Len(bought, 2)
	s.Equal(second.ID(), bought[0].ID)
	s.Equal(first.ID(), bought[1].ID)
	s.Equal("juan", bought[0].CounterpartName)
	s.Equal(s.farmer, bought[0].CounterpartID)

	sold, err := s.orders.ListBySeller(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Require().Len(sold, 2)
	s.Equal("maria", sold[0].CounterpartName)

	none, err := s.orders.ListByBuyer(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestOrderCompareAndSet() {
	o := s.placeOrder()

	a, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	b, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)

	s.Require().NoError(a.ChangeStatus(order.StatusConfirmed))
	s.Require().NoError(s.orders.Save(s.ctx, a))

	s.Require().NoError(b.ChangeStatus(order.StatusCancelled))
	err = s.orders.Save(s.ctx, b)
	s.ErrorIs(err, order.ErrConcurrentModification)
	s.ErrorIs(err, shared.ErrConcurrentModification)

	stored, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.StatusConfirmed, stored.Status())
}

func (s *RepositorySuite) TestOrderAddedDetailsPersist() {
	o := s.placeOrder()
	loaded, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)

	_, err = loaded.AddDetail(s.yuca, dec("2"), dec("2500"))
	s.Require().NoError(err)
	s.Require().NoError(s.orders.Save(s.ctx, loaded))

	stored, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Len(stored.Details(), 3)
	s.Equal("32500.00", stored.Total().String())
	s.True(stored.ReconcileTotal())
}

// reportChangedRows makes order updates report changed rather than matched
// rows, the way MySQL does without clientFoundRows.
func (s *RepositorySuite) reportChangedRows() {
	err := s.session.DB(s.ctx).Callback().Update().After("gorm:update").
		Register("test:changed_rows", func(db *gorm.DB) {
			if db.Statement.Table == "orders" {
				db.RowsAffected = 0
			}
		})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestOrderFreeDetailWithChangedRowsReporting() {
	s.reportChangedRows()
	o := s.placeOrder()

	loaded, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	_, err = loaded.AddDetail(s.platano, dec("1"), dec("0"))
	s.Require().NoError(err)
	s.Require().NoError(s.orders.Save(s.ctx, loaded))

	stored, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Len(stored.Details(), 3)
	s.Equal("27500.00", stored.Total().String())
}

func (s *RepositorySuite) TestOrderStaleStatusWithChangedRowsReporting() {
	o := s.placeOrder()

	a, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	b, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)

	s.Require().NoError(a.ChangeStatus(order.StatusConfirmed))
	s.Require().NoError(s.orders.Save(s.ctx, a))

	s.reportChangedRows()
	_, err = b.AddDetail(s.platano, dec("1"), dec("0"))
	s.Require().NoError(err)
	s.ErrorIs(s.orders.Save(s.ctx, b), order.ErrConcurrentModification)

	stored, err := s.orders.FindByID(s.ctx, o.ID())
	s.Require().NoError(err)
	s.Len(stored.Details(), 2)
}

func (s *RepositorySuite) TestOrderSpecification() {
	o := s.placeOrder()
	other := s.placeOrder()
	loaded, err := s.orders.FindByID(s.ctx, other.ID())
	s.Require().NoError(err)
	s.Require().NoError(loaded.ChangeStatus(order.StatusCancelled))
	s.Require().NoError(s.orders.Save(s.ctx, loaded))

	open, err := s.orders.FindBySpecification(s.ctx, shared.And(
		order.ByBuyerSpecification{BuyerID: s.consumer},
		shared.Not(order.ByStatusSpecification{Status: order.StatusCancelled}),
	))
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(o.ID(), open[0].ID())
	s.Len(open[0].Details(), 2)

	recent, err := s.orders.FindBySpecification(s.ctx, order.ByDateRangeSpecification{Start: time.Now().UTC().Add(-time.Hour)})
	s.Require().NoError(err)
	s.Len(recent, 2)
}

// reviews

func (s *RepositorySuite) TestReviewsAndAverage() {
	avg, err := s.reviews.AverageRating(s.ctx, review.ForProduct(s.yuca))
	s.Require().NoError(err)
	s.Zero(avg)

	for _, rating := range []int{4, 5} {
		r, err := review.NewReview(review.Submission{
			ReviewerID: s.consumer, ReviewedID: s.farmer, Rating: rating, ProductID: &s.yuca,
		})
		s.Require().NoError(err)
		s.Require().NoError(s.reviews.Save(s.ctx, r))
		s.NotZero(r.ID())
	}

	avg, err = s.reviews.AverageRating(s.ctx, review.ForProduct(s.yuca))
	s.Require().NoError(err)
	s.InDelta(4.5, avg, 1e-9)

	avg, err = s.reviews.AverageRating(s.ctx, review.ForUser(s.farmer))
	s.Require().NoError(err)
	s.InDelta(4.5, avg, 1e-9)

	views, err := s.reviews.FindByProduct(s.ctx, s.yuca)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal("maria", views[0].ReviewerName)
	s.Equal(5, views[0].Rating, "newest first")

	byUser, err := s.reviews.FindByReviewed(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Len(byUser, 2)
}

func (s *RepositorySuite) TestReviewRejectsUnknownReferences() {
	missing := uint64(999)
	r, err := review.NewReview(review.Submission{ReviewerID: s.consumer, ReviewedID: s.farmer, Rating: 3, OrderID: &missing})
	s.Require().NoError(err)
	s.ErrorIs(s.reviews.Save(s.ctx, r), shared.ErrNotFound)

	r, err = review.NewReview(review.Submission{ReviewerID: missing, ReviewedID: s.farmer, Rating: 3})
	s.Require().NoError(err)
	s.ErrorIs(s.reviews.Save(s.ctx, r), shared.ErrNotFound)
}

// messages

func (s *RepositorySuite) send(from, to uint64, body string) *message.Message {
	m, err := message.NewMessage(from, to, body)
	s.Require().NoError(err)
	s.Require().NoError(s.messages.Save(s.ctx, m))
	return m
}

func (s *RepositorySuite) TestMessages() {
	first := s.send(s.consumer, s.farmer, "Hola, tiene yuca?")
	s.send(s.farmer, s.consumer, "Si, 80 kg")
	s.send(s.consumer, s.farmer, "Quiero 5 kg")

	conv, err := s.messages.Conversation(s.ctx, s.farmer, s.consumer)
	s.Require().NoError(err)
	s.Require().Len(conv, 3)
	s.Equal(first.ID(), conv[0].ID())

	n, err := s.messages.UnreadCount(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.EqualValues(2, n)

	s.Require().NoError(s.messages.MarkAsRead(s.ctx, first.ID()))
	s.Require().NoError(s.messages.MarkAsRead(s.ctx, first.ID()), "already read is fine")
	n, err = s.messages.UnreadCount(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	s.ErrorIs(s.messages.MarkAsRead(s.ctx, 999), shared.ErrNotFound)

	changed, err := s.messages.MarkConversationRead(s.ctx, s.farmer, s.consumer)
	s.Require().NoError(err)
	s.EqualValues(1, changed)
	n, err = s.messages.UnreadCount(s.ctx, s.farmer)
	s.Require().NoError(err)
	s.Zero(n)

	none, err := s.messages.UnreadCount(s.ctx, 999)
	s.Require().NoError(err)
	s.Zero(none)
}

func (s *RepositorySuite) TestMessageToUnknownUser() {
	m, err := message.NewMessage(s.consumer, 999, "hola")
	s.Require().NoError(err)
	s.ErrorIs(s.messages.Save(s.ctx, m), shared.ErrNotFound)
}
