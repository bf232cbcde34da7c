package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleNormalUser = "NORMAL_USER"
	RoleBusiness   = "BUSINESS"
	RoleAdmin      = "ADMIN"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
	VerificationNone     = "none"
)

type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	Email              string     `gorm:"size:100;uniqueIndex;not null" json:"email"` // always stored lowercase-trimmed
	GoogleID           string     `gorm:"size:100" json:"-"`
	ProfilePicture     string     `gorm:"type:text" json:"profile_picture"`
	Role               string     `gorm:"size:20;not null;default:NORMAL_USER" json:"role"`
	IsVerified         bool       `gorm:"default:false" json:"is_verified"`
	VerificationStatus string     `gorm:"size:20;default:none" json:"verification_status"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	// SavedPosts is an informational cache of post IDs. SavedOffer rows are
	// the source of truth; every save/unsave must write both.
	SavedPosts []string  `gorm:"serializer:json" json:"saved_posts"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
