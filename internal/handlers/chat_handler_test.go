package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avoron/groupchat/internal/apperr"
	"github.com/avoron/groupchat/internal/handlers/dto"
	"github.com/avoron/groupchat/internal/middleware"
	"github.com/avoron/groupchat/internal/models"
	"github.com/avoron/groupchat/internal/service"
	ws "github.com/avoron/groupchat/internal/websocket"
)

// MockChatStore mocks the service.ChatStore interface
type MockChatStore struct {
	mock.Mock
}

func (m *MockChatStore) CreateChat(chat *models.Chat) error {
	args := m.Called(chat)
	return args.Error(0)
}

func (m *MockChatStore) GetChat(id string) (*models.Chat, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatStore) GetAllChats() ([]models.Chat, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockChatStore) SearchChatsByTitle(title string) ([]models.Chat, error) {
	args := m.Called(title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockChatStore) DeleteChat(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockChatStore) AddMember(chatID, userID string) error {
	args := m.Called(chatID, userID)
	return args.Error(0)
}

func (m *MockChatStore) RemoveMember(chatID, userID string) error {
	args := m.Called(chatID, userID)
	return args.Error(0)
}

func (m *MockChatStore) IsMember(chatID, userID string) (bool, error) {
	args := m.Called(chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatStore) SaveMessage(message *models.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockChatStore) GetChatMessages(chatID string, limit int, beforeID *uuid.UUID) ([]models.Message, error) {
	args := m.Called(chatID, limit, beforeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MockUserStore mocks the service.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) GetUser(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) FindUserByName(name string) (*models.User, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetAllUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserStore) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) DeleteUser(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// authAs подменяет auth middleware фиксированным пользователем
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func newChatHandler(chats *MockChatStore, users *MockUserStore) (*ChatHandler, *ws.Hub) {
	hub := ws.NewHub()
	return NewChatHandler(service.NewChatService(chats, users), hub), hub
}

func TestCreateChat_Created(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	userID := uuid.New()

	router := setupRouter()
	router.POST("/chats", authAs(userID), handler.CreateChat)

	users.On("GetUser", userID.String()).Return(&models.User{ID: userID}, nil)
	chats.On("CreateChat", mock.AnythingOfType("*models.Chat")).Return(nil)

	body, _ := json.Marshal(dto.CreateChatRequest{Title: "general"})
	req, _ := http.NewRequest("POST", "/chats", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "general", response["title"])
	assert.Equal(t, userID.String(), response["creator_id"])
	chats.AssertExpectations(t)
}

func TestCreateChat_DuplicateTitle(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	userID := uuid.New()

	router := setupRouter()
	router.POST("/chats", authAs(userID), handler.CreateChat)

	users.On("GetUser", userID.String()).Return(&models.User{ID: userID}, nil)
	chats.On("CreateChat", mock.AnythingOfType("*models.Chat")).Return(apperr.ErrConflict)

	body, _ := json.Marshal(dto.CreateChatRequest{Title: "general"})
	req, _ := http.NewRequest("POST", "/chats", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateChat_EmptyTitle(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)

	router := setupRouter()
	router.POST("/chats", authAs(uuid.New()), handler.CreateChat)

	req, _ := http.NewRequest("POST", "/chats", bytes.NewBufferString(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	chats.AssertNotCalled(t, "CreateChat", mock.Anything)
}

func TestGetChat_InvalidID(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)

	router := setupRouter()
	router.GET("/chats/:id", authAs(uuid.New()), handler.GetChat)

	req, _ := http.NewRequest("GET", "/chats/not-a-uuid", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChat_NotFound(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	chatID := uuid.New()

	router := setupRouter()
	router.GET("/chats/:id", authAs(uuid.New()), handler.GetChat)

	chats.On("GetChat", chatID.String()).Return(nil, apperr.ErrNotFound)

	req, _ := http.NewRequest("GET", "/chats/"+chatID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteChat_NotCreator(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	chatID := uuid.New()
	creatorID := uuid.New()

	router := setupRouter()
	router.DELETE("/chats/:id", authAs(uuid.New()), handler.DeleteChat)

	chats.On("GetChat", chatID.String()).Return(&models.Chat{ID: chatID, CreatorID: creatorID}, nil)

	req, _ := http.NewRequest("DELETE", "/chats/"+chatID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	chats.AssertNotCalled(t, "DeleteChat", mock.Anything)
}

func TestDeleteChat_Creator(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	chatID := uuid.New()
	creatorID := uuid.New()

	router := setupRouter()
	router.DELETE("/chats/:id", authAs(creatorID), handler.DeleteChat)

	chats.On("GetChat", chatID.String()).Return(&models.Chat{ID: chatID, CreatorID: creatorID}, nil)
	chats.On("DeleteChat", chatID.String()).Return(nil)

	req, _ := http.NewRequest("DELETE", "/chats/"+chatID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	chats.AssertExpectations(t)
}

func TestJoinChat_AlreadyMember(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	chatID := uuid.New()
	userID := uuid.New()

	router := setupRouter()
	router.POST("/chats/:id/join", authAs(userID), handler.JoinChat)

	chats.On("AddMember", chatID.String(), userID.String()).Return(apperr.ErrConflict)

	req, _ := http.NewRequest("POST", "/chats/"+chatID.String()+"/join", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLeaveChat_NotMember(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)
	chatID := uuid.New()
	userID := uuid.New()

	router := setupRouter()
	router.POST("/chats/:id/leave", authAs(userID), handler.LeaveChat)

	chats.On("RemoveMember", chatID.String(), userID.String()).Return(apperr.ErrNotFound)

	req, _ := http.NewRequest("POST", "/chats/"+chatID.String()+"/leave", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListChats_SearchNoMatches(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)

	router := setupRouter()
	router.GET("/chats", authAs(uuid.New()), handler.ListChats)

	chats.On("SearchChatsByTitle", "missing").Return(nil, apperr.ErrNotFound)

	req, _ := http.NewRequest("GET", "/chats?title=missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListChats_All(t *testing.T) {
	chats := new(MockChatStore)
	users := new(MockUserStore)
	handler, _ := newChatHandler(chats, users)

	router := setupRouter()
	router.GET("/chats", authAs(uuid.New()), handler.ListChats)

	stored := []models.Chat{
		{ID: uuid.New(), Title: "general", CreatorID: uuid.New(), CreatedAt: time.Now()},
		{ID: uuid.New(), Title: "random", CreatorID: uuid.New(), CreatedAt: time.Now()},
	}
	chats.On("GetAllChats").Return(stored, nil)

	req, _ := http.NewRequest("GET", "/chats", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Chats []map[string]interface{} `json:"chats"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Chats, 2)
}
