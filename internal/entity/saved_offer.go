package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedOffer is one row per (user, post) save; deleting it is the unsave
// operation. It is the source of truth for saved offers.
type SavedOffer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_post" json:"user_id"`
	PostID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_post;index" json:"post_id"`
	SavedAt time.Time `gorm:"autoCreateTime" json:"saved_at"`
}

func (s *SavedOffer) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
