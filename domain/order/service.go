package order

import "context"

// UserDirectory answers whether an account exists.
type UserDirectory interface {
	UserExists(ctx context.Context, id uint64) (bool, error)
}

// ProductCatalog answers whether a listing exists.
type ProductCatalog interface {
	ProductExists(ctx context.Context, id uint64) (bool, error)
}

// DomainService checks the references an order makes before it is written.
// It only reads.
type DomainService struct {
	users    UserDirectory
	products ProductCatalog
}

func NewDomainService(users UserDirectory, products ProductCatalog) *DomainService {
	return &DomainService{users: users, products: products}
}

// VerifyParties fails with a not-found error naming the missing buyer or seller.
func (s *DomainService) VerifyParties(ctx context.Context, buyerID, sellerID uint64) error {
	for _, party := range []struct {
		role string
		id   uint64
	}{{"buyer", buyerID}, {"seller", sellerID}} {
		ok, err := s.users.UserExists(ctx, party.id)
		if err != nil {
			return err
		}
		if !ok {
			return NewPartyNotFoundError(party.role, party.id)
		}
	}
	return nil
}

// VerifyProducts fails on the first product that does not exist.
func (s *DomainService) VerifyProducts(ctx context.Context, productIDs ...uint64) error {
	seen := make(map[uint64]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ok, err := s.products.ProductExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return NewProductNotFoundError(id)
		}
	}
	return nil
}
