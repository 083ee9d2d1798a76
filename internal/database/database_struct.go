// Package database — шлюз долговременного хранилища: пользователи, чаты,
// членства и сообщения. Все записи атомарны в пределах одного вызова,
// ограничения целостности проверяет сама БД.
package database

import "gorm.io/gorm"

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}
