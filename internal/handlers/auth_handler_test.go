package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/avoron/groupchat/internal/apperr"
	"github.com/avoron/groupchat/internal/handlers/dto"
	"github.com/avoron/groupchat/internal/models"
	"github.com/avoron/groupchat/internal/service"
	"github.com/avoron/groupchat/pkg/auth"
)

func newAuthHandler(users *MockUserStore) *AuthHandler {
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthHandler(service.NewUserService(users), jwtMgr, nil)
}

func TestRegister_Created(t *testing.T) {
	users := new(MockUserStore)
	handler := newAuthHandler(users)

	router := setupRouter()
	router.POST("/register", handler.Register)

	users.On("SaveUser", mock.AnythingOfType("*models.User")).Return(nil)

	body, _ := json.Marshal(dto.RegisterRequest{Name: "alice", Password: "password123"})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "alice", response["name"])
	users.AssertExpectations(t)
}

func TestRegister_NameTaken(t *testing.T) {
	users := new(MockUserStore)
	handler := newAuthHandler(users)

	router := setupRouter()
	router.POST("/register", handler.Register)

	users.On("SaveUser", mock.AnythingOfType("*models.User")).Return(apperr.ErrConflict)

	body, _ := json.Marshal(dto.RegisterRequest{Name: "alice", Password: "password123"})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_InvalidJSON(t *testing.T) {
	users := new(MockUserStore)
	handler := newAuthHandler(users)

	router := setupRouter()
	router.POST("/register", handler.Register)

	req, _ := http.NewRequest("POST", "/register", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_ReturnsToken(t *testing.T) {
	users := new(MockUserStore)
	handler := newAuthHandler(users)

	router := setupRouter()
	router.POST("/login", handler.Login)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &models.User{ID: uuid.New(), Name: "alice", PasswordHash: string(hash)}
	users.On("FindUserByName", "alice").Return(stored, nil)

	body, _ := json.Marshal(dto.LoginRequest{Name: "alice", Password: "password123"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response["token"])

	// Токен проверяем той же парой ключей
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	claims, err := jwtMgr.Verify(response["token"])
	assert.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.Subject)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserStore)
	handler := newAuthHandler(users)

	router := setupRouter()
	router.POST("/login", handler.Login)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	users.On("FindUserByName", "alice").Return(&models.User{Name: "alice", PasswordHash: string(hash)}, nil)

	body, _ := json.Marshal(dto.LoginRequest{Name: "alice", Password: "wrong"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(MockUserStore)
	handler := newAuthHandler(users)

	router := setupRouter()
	router.POST("/login", handler.Login)

	users.On("FindUserByName", "ghost").Return(nil, apperr.ErrNotFound)

	body, _ := json.Marshal(dto.LoginRequest{Name: "ghost", Password: "password123"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Неизвестное имя неотличимо от неверного пароля
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
