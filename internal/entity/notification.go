package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationNewOffer         = "new_offer"
	NotificationOfferExpiry      = "offer_expiry"
	NotificationSavedOfferUpdate = "saved_offer_update"
	NotificationBusinessUpdate   = "business_update"
	NotificationSystem           = "system"
	NotificationLike             = "like"
	NotificationComment          = "comment"
)

const (
	RelatedModelPost         = "Post"
	RelatedModelBusinessUser = "BusinessUser"
	RelatedModelUser         = "User"
)

// Notification is a per-recipient record. Only offer_expiry is deduplicated
// (at most one per user/post); other types may be inserted redundantly on
// repeated triggers.
type Notification struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	Title        string    `gorm:"size:200;not null" json:"title"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	RelatedID    uuid.UUID `gorm:"type:uuid" json:"related_id"`
	RelatedModel string    `gorm:"size:30" json:"related_model"`
	Type         string    `gorm:"size:30;default:system" json:"type"`
	IsRead       bool      `gorm:"default:false" json:"is_read"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
