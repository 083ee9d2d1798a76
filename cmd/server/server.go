package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/avoron/groupchat/internal/database"
	"github.com/avoron/groupchat/internal/handlers"
	"github.com/avoron/groupchat/internal/service"
	ws "github.com/avoron/groupchat/internal/websocket"
	"github.com/avoron/groupchat/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	userSvc := service.NewUserService(dbConn)
	chatSvc := service.NewChatService(dbConn, dbConn)

	hub := ws.NewHub()
	go hub.Run()

	authH := handlers.NewAuthHandler(userSvc, jwtMgr, rdb)
	userH := handlers.NewUserHandler(userSvc)
	chatH := handlers.NewChatHandler(chatSvc, hub)
	messageH := handlers.NewHTTPMessageHandler(chatSvc, hub)
	wsH := handlers.NewWebSocketHandler(hub, handlers.NewMessageHandler(chatSvc, hub))

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, userH, chatH, messageH, wsH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.Router,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server run error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")

	// Хаб закрывает клиентские каналы до остановки HTTP-слушателя,
	// чтобы write pump'ы завершились штатным close-фреймом
	s.Hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
