package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultOfferLifetime is applied when an offer is created without an
// explicit expiry.
const DefaultOfferLifetime = 7 * 24 * time.Hour

// PostAuthor is a point-in-time snapshot of the author, copied at creation
// and never refreshed. Renaming a business does not rewrite past posts.
type PostAuthor struct {
	ID       string `gorm:"size:64;not null" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Picture  string `gorm:"type:text" json:"picture"`
	Verified bool   `gorm:"default:false" json:"verified"`
	Role     string `gorm:"size:20;not null" json:"role"`
	Category string `gorm:"size:50" json:"category,omitempty"`
	Location string `gorm:"type:text" json:"location,omitempty"`
}

type Comment struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserPicture string    `json:"user_picture"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is an offer. Likes and Comments are document-style lists; LikesCount
// and CommentsCount are denormalized counters maintained by the engagement
// operations.
type Post struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Author        PostAuthor `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Content       string     `gorm:"type:text" json:"content"`
	Image         string     `gorm:"type:text" json:"image"`
	LikesCount    int        `gorm:"default:0" json:"likes_count"`
	CommentsCount int        `gorm:"default:0" json:"comments_count"`
	Views         int64      `gorm:"default:0" json:"views"`
	Likes         []string   `gorm:"serializer:json" json:"likes"`
	Comments      []Comment  `gorm:"serializer:json" json:"comments"`
	// ExpiresAt marks when the offer lapses. Expiry triggers notifications
	// only; expired posts stay queryable.
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = time.Now().Add(DefaultOfferLifetime)
	}
	return nil
}

// HasLike reports whether userID is present in the like list.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
