package user

import (
	"context"
	"errors"
	"time"

	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/pkg/logger"

	"go.uber.org/zap"
)

// ApplicationService coordinates account registration, credentials and profiles.
type ApplicationService struct {
	userRepo          user.Repository
	userDomainService *user.DomainService
	hasher            user.PasswordHasher
	uows              shared.UnitOfWorkFactory
}

func NewApplicationService(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	uows shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		userRepo:          userRepo,
		userDomainService: user.NewDomainService(userRepo),
		hasher:            hasher,
		uows:              uows,
	}
}

// RegisterRequest Register account request DTO. Role accepts "producer",
// "consumer" and the legacy "agricultor"/"consumidor".
type RegisterRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Role      string   `json:"user_type"`
	Latitude  *float64 `json:"location_lat,omitempty"`
	Longitude *float64 `json:"location_lng,omitempty"`
	Address   string   `json:"address"`
	Bio       string   `json:"bio"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"user_type"`
	Latitude  *float64  `json:"location_lat,omitempty"`
	Longitude *float64  `json:"location_lng,omitempty"`
	Address   string    `json:"address"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// Register hashes the password, then creates the account in one unit of work.
func (s *ApplicationService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	var location *user.GeoPoint
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return nil, user.NewInvalidLocationError("latitude and longitude go together")
		}
		location = &user.GeoPoint{Lat: *req.Latitude, Lng: *req.Longitude}
	}

	uow := s.uows.New()
	var u *user.User
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.userDomainService.EnsureEmailAvailable(ctx, req.Email); err != nil {
			return err
		}
		created, err := user.NewUser(user.Registration{
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			Phone:        req.Phone,
			Role:         req.Role,
			Location:     location,
			Address:      req.Address,
			Bio:          req.Bio,
		})
		if err != nil {
			return err
		}
		if err := s.userRepo.Save(ctx, created); err != nil {
			return err
		}
		uow.RegisterNew(created)
		u = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User registered",
		zap.Uint64("user_id", u.ID()),
		zap.String("role", u.Role().String()),
	)
	return toUserResponse(u), nil
}

// Authenticate returns the account when the password matches. Unknown
// emails and wrong passwords both fail with user.ErrInvalidCredentials.
func (s *ApplicationService) Authenticate(ctx context.Context, email, password string) (*UserResponse, error) {
	u, err := s.userDomainService.Authenticate(ctx, s.hasher, email, password)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// GetUser returns nil, nil when the account does not exist.
func (s *ApplicationService) GetUser(ctx context.Context, userID uint64) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

func (s *ApplicationService) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

func (s *ApplicationService) ListProducers(ctx context.Context) ([]*UserResponse, error) {
	return s.list(ctx, user.Producers())
}

func (s *ApplicationService) ListConsumers(ctx context.Context) ([]*UserResponse, error) {
	return s.list(ctx, user.Consumers())
}

func (s *ApplicationService) list(ctx context.Context, spec shared.Specification) ([]*UserResponse, error) {
	users, err := s.userRepo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out, nil
}

// UpdateProfile applies a partial update. Empty patches are rejected.
func (s *ApplicationService) UpdateProfile(ctx context.Context, userID uint64, patch user.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, patch)
}

// ChangePassword requires the current password.
func (s *ApplicationService) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(u.PasswordHash(), current); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordHash(ctx, userID, hash)
}

func toUserResponse(u *user.User) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID(),
		Email:     u.Email().Value(),
		Name:      u.Name(),
		Phone:     u.Phone(),
		Role:      u.Role().String(),
		Address:   u.Address(),
		Bio:       u.Bio(),
		CreatedAt: u.CreatedAt(),
	}
	if loc := u.Location(); loc != nil {
		lat, lng := loc.Lat, loc.Lng
		resp.Latitude, resp.Longitude = &lat, &lng
	}
	return resp
}
