// Package apperr содержит типизированные исходы бизнес-операций.
// Все слои сравнивают ошибки через errors.Is; всё, что не попадает
// в эти три вида, считается внутренней ошибкой.
package apperr

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)
