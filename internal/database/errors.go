package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avoron/groupchat/internal/apperr"
)

// translate приводит ошибки gorm к типизированным исходам. Уникальные
// ключи БД — последний арбитр для Conflict: проверка перед вставкой
// может проиграть гонку, вставка — нет.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	default:
		return err
	}
}
