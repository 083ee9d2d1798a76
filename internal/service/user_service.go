package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avoron/groupchat/internal/apperr"
	"github.com/avoron/groupchat/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore — контракт шлюза для пользователей.
type UserStore interface {
	SaveUser(user *models.User) error
	GetUser(id string) (*models.User, error)
	FindUserByName(name string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id string) error
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register создает пользователя; повторное имя — Conflict.
func (s *UserService) Register(name, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &models.User{
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return user, nil
}

// Authenticate проверяет имя и пароль, не раскрывая, что именно неверно.
func (s *UserService) Authenticate(name, password string) (*models.User, error) {
	user, err := s.users.FindUserByName(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	return s.users.GetUser(id.String())
}

func (s *UserService) List() ([]models.User, error) {
	return s.users.GetAllUsers()
}

// Update меняет имя пользователя.
func (s *UserService) Update(id uuid.UUID, name string) (*models.User, error) {
	user, err := s.users.GetUser(id.String())
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.Name = name

	if err := s.users.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Delete удаляет пользователя; созданные им чаты уходят каскадом в шлюзе.
func (s *UserService) Delete(id uuid.UUID) error {
	if err := s.users.DeleteUser(id.String()); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
