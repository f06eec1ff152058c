package po

import (
	"time"

	"campodigital/domain/user"
)

// UserPO maps the users table. No GORM associations are declared on any PO;
// repositories join explicitly.
type UserPO struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Name         string    `gorm:"size:100;not null"`
	Phone        string    `gorm:"size:20"`
	UserType     string    `gorm:"size:20;index;not null"` // producer, consumer (legacy: agricultor, consumidor)
	LocationLat  *float64  `gorm:"type:decimal(10,8)"`
	LocationLng  *float64  `gorm:"type:decimal(11,8)"`
	Address      string    `gorm:"type:text"`
	Bio          string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

func (UserPO) TableName() string {
	return "users"
}

func FromUserDomain(u *user.User) *UserPO {
	p := &UserPO{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Name:         u.Name(),
		Phone:        u.Phone(),
		UserType:     string(u.Role()),
		Address:      u.Address(),
		Bio:          u.Bio(),
		CreatedAt:    u.CreatedAt(),
	}
	if loc := u.Location(); loc != nil {
		lat, lng := loc.Lat, loc.Lng
		p.LocationLat, p.LocationLng = &lat, &lng
	}
	return p
}

func (po *UserPO) ToDomain() *user.User {
	var loc *user.GeoPoint
	if po.LocationLat != nil && po.LocationLng != nil {
		loc = &user.GeoPoint{Lat: *po.LocationLat, Lng: *po.LocationLng}
	}
	return user.RebuildFromDTO(user.ReconstructionDTO{
		ID:           po.ID,
		Email:        po.Email,
		PasswordHash: po.PasswordHash,
		Name:         po.Name,
		Phone:        po.Phone,
		Role:         po.UserType,
		Location:     loc,
		Address:      po.Address,
		Bio:          po.Bio,
		CreatedAt:    po.CreatedAt,
	})
}

// UserPatchColumns turns a patch into an update map keyed by column.
func UserPatchColumns(p user.Patch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.Location != nil {
		cols["location_lat"] = p.Location.Lat
		cols["location_lng"] = p.Location.Lng
	}
	if p.Address != nil {
		cols["address"] = *p.Address
	}
	if p.Bio != nil {
		cols["bio"] = *p.Bio
	}
	return cols
}
