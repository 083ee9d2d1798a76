package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMember — долговременная запись членства. Составной первичный ключ
// гарантирует не более одной записи на пару (чат, пользователь).
type ChatMember struct {
	ChatID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time

	Chat *Chat `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
