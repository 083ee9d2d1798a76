package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/avoron/groupchat/internal/handlers"
	"github.com/avoron/groupchat/internal/middleware"
	"github.com/avoron/groupchat/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	chatH *handlers.ChatHandler,
	messageH *handlers.HTTPMessageHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		users := api.Group("/users")
		{
			users.GET("/me", userH.GetMe)
			users.PATCH("/me", userH.UpdateMe)
			users.DELETE("/me", userH.DeleteMe)
			users.GET("", userH.ListUsers)
			users.GET("/:id", userH.GetUser)
		}

		chats := api.Group("/chats")
		{
			chats.POST("", chatH.CreateChat)
			chats.GET("", chatH.ListChats)
			chats.GET("/:id", chatH.GetChat)
			chats.DELETE("/:id", chatH.DeleteChat)
			chats.POST("/:id/join", chatH.JoinChat)
			chats.POST("/:id/leave", chatH.LeaveChat)
			chats.GET("/:id/messages", messageH.GetChatMessages)
			chats.POST("/:id/messages", messageH.SendMessage)
		}
	}

	// WebSocket endpoint
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
