package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message неизменяемо после создания; CreatedAt проставляется сервером.
// Внешние ключи держит сама БД: вставка в удаленный чат отбивается
// на уровне ограничения, даже если проверка прошла до конкурентного удаления.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time

	Chat *Chat `json:"-" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
