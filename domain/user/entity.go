package user

import (
	"strings"
	"time"

	"campodigital/domain/shared"
)

// EventRegistered is recorded when an account is created.
const EventRegistered = "user.registered"

// User is a marketplace account. Accounts are never hard-deleted.
type User struct {
	id           uint64
	email        Email
	passwordHash string
	name         string
	phone        string
	role         Role
	location     *GeoPoint
	address      string
	bio          string
	createdAt    time.Time

	events []shared.DomainEvent
}

// Registration holds the fields accepted when an account is created.
// PasswordHash must already be hashed; the plain password never reaches the entity.
type Registration struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         string
	Location     *GeoPoint
	Address      string
	Bio          string
}

func NewUser(r Registration) (*User, error) {
	email, err := NewEmail(r.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, NewInvalidNameError()
	}
	role, err := ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	if r.PasswordHash == "" {
		return nil, ErrEmptyPassword
	}
	if r.Location != nil {
		if _, err := NewGeoPoint(r.Location.Lat, r.Location.Lng); err != nil {
			return nil, err
		}
	}

	u := &User{
		email:        email,
		passwordHash: r.PasswordHash,
		name:         name,
		phone:        strings.TrimSpace(r.Phone),
		role:         role,
		location:     r.Location,
		address:      r.Address,
		bio:          r.Bio,
		createdAt:    time.Now().UTC(),
	}
	u.events = append(u.events, shared.NewEvent(EventRegistered, "user", 0, map[string]any{
		"email": email.Value(),
		"role":  string(role),
	}))
	return u, nil
}

func (u *User) ID() uint64           { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Name() string         { return u.name }
func (u *User) Phone() string        { return u.phone }
func (u *User) Role() Role           { return u.role }
func (u *User) Location() *GeoPoint  { return u.location }
func (u *User) Address() string      { return u.address }
func (u *User) Bio() string          { return u.bio }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) IsNew() bool          { return u.id == 0 }
func (u *User) IsProducer() bool     { return u.role == RoleProducer }

// AssignID is called by the repository once the store has generated the key.
func (u *User) AssignID(id uint64) {
	u.id = id
}

func (u *User) PullEvents() []shared.DomainEvent {
	return shared.PullEvents(&u.events, u.id)
}

// ReconstructionDTO carries a stored row back into the domain. Repository use only.
type ReconstructionDTO struct {
	ID           uint64
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         string
	Location     *GeoPoint
	Address      string
	Bio          string
	CreatedAt    time.Time
}

// RebuildFromDTO trusts stored data; unknown roles are kept verbatim.
func RebuildFromDTO(dto ReconstructionDTO) *User {
	role, err := ParseRole(dto.Role)
	if err != nil {
		role = Role(dto.Role)
	}
	return &User{
		id:           dto.ID,
		email:        Email{value: dto.Email},
		passwordHash: dto.PasswordHash,
		name:         dto.Name,
		phone:        dto.Phone,
		role:         role,
		location:     dto.Location,
		address:      dto.Address,
		bio:          dto.Bio,
		createdAt:    dto.CreatedAt,
	}
}

var _ shared.AggregateRoot = (*User)(nil)
