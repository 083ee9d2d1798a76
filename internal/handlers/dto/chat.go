package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	Title string `json:"title" binding:"required,min=1,max=100"`
}

type ChatResponse struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	CreatorID   uuid.UUID   `json:"creator_id"`
	CreatedAt   time.Time   `json:"created_at"`
	OnlineUsers []uuid.UUID `json:"online_users,omitempty"`
}
