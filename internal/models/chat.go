package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat — именованная беседа. Пара (Title, CreatorID) уникальна:
// один создатель не может иметь два чата с одинаковым названием.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"not null;uniqueIndex:idx_chats_title_creator"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_title_creator"`
	CreatedAt time.Time

	Creator *User `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
