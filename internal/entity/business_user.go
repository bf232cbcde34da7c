package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessUser is the business registration record, keyed by email and kept
// separate from User. Existence of a row for an email is the sole signal that
// promotes a User to role BUSINESS; readers join through email.
type BusinessUser struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessName    string    `gorm:"size:100;not null" json:"business_name"`
	BusinessAddress string    `gorm:"type:text;not null" json:"business_address"`
	Pincode         string    `gorm:"size:20;not null" json:"pincode"`
	Timing          string    `gorm:"size:100;not null" json:"timing"` // opening and closing timing
	Category        string    `gorm:"size:50;default:Retail" json:"category"`
	Email           string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *BusinessUser) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Category == "" {
		b.Category = "Retail"
	}
	return nil
}
