package user

import "strings"

// Patch is a partial profile update. Nil fields are left unchanged.
// Email, role and password are not patchable here.
type Patch struct {
	Name     *string
	Phone    *string
	Location *GeoPoint
	Address  *string
	Bio      *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Location == nil && p.Address == nil && p.Bio == nil
}

// Validate rejects empty patches and values NewUser would reject.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return NewInvalidNameError()
	}
	if p.Location != nil {
		if _, err := NewGeoPoint(p.Location.Lat, p.Location.Lng); err != nil {
			return err
		}
	}
	return nil
}
