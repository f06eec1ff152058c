package user

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a normalized (trimmed, lower-cased) address.
type Email struct {
	value string
}

func NewEmail(email string) (Email, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegex.MatchString(email) {
		return Email{}, NewInvalidEmailError(email)
	}
	return Email{value: email}, nil
}

func (e Email) Value() string           { return e.value }
func (e Email) Equals(other Email) bool { return e.value == other.value }
func (e Email) String() string          { return e.value }

// Role is the kind of marketplace account.
type Role string

const (
	RoleProducer Role = "producer"
	RoleConsumer Role = "consumer"
)

// legacy values written by the first version of the marketplace
var legacyRoles = map[string]Role{
	"agricultor": RoleProducer,
	"consumidor": RoleConsumer,
}

// ParseRole accepts the canonical names and the legacy ones.
func ParseRole(s string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Role(v) {
	case RoleProducer, RoleConsumer:
		return Role(v), nil
	}
	if r, ok := legacyRoles[v]; ok {
		return r, nil
	}
	return "", NewInvalidRoleError(s)
}

func (r Role) String() string { return string(r) }

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64
	Lng float64
}

func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if lat < -90 || lat > 90 {
		return GeoPoint{}, NewInvalidLocationError("latitude out of range")
	}
	if lng < -180 || lng > 180 {
		return GeoPoint{}, NewInvalidLocationError("longitude out of range")
	}
	return GeoPoint{Lat: lat, Lng: lng}, nil
}

// StoredValues lists every column value that reads back as r.
func (r Role) StoredValues() []string {
	out := []string{string(r)}
	for legacy, role := range legacyRoles {
		if role == r {
			out = append(out, legacy)
		}
	}
	return out
}
