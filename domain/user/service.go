/*
Domain service for rules that need the repository but change nothing.
*/
package user

import "context"

type DomainService struct {
	userRepository Repository
}

func NewDomainService(userRepo Repository) *DomainService {
	return &DomainService{userRepository: userRepo}
}

// EnsureEmailAvailable fails with a conflict when another account owns the address.
// The unique index still guards against races between check and insert.
func (s *DomainService) EnsureEmailAvailable(ctx context.Context, email string) error {
	normalized, err := NewEmail(email)
	if err != nil {
		return err
	}
	existing, err := s.userRepository.FindByEmail(ctx, normalized.Value())
	if err != nil {
		return err
	}
	if existing != nil {
		return NewEmailAlreadyExistsError(normalized.Value())
	}
	return nil
}

// Authenticate checks a plain password against the stored credential.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *DomainService) Authenticate(ctx context.Context, hasher PasswordHasher, email, password string) (*User, error) {
	normalized, err := NewEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.userRepository.FindByEmail(ctx, normalized.Value())
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := hasher.Verify(u.PasswordHash(), password); err != nil {
		return nil, err
	}
	return u, nil
}
