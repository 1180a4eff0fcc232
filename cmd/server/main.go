package main

import (
	"log"
	"os"

	"forumlink/internal/db"
	"forumlink/internal/handlers"
	"forumlink/internal/middleware"
	"forumlink/internal/services"
	"forumlink/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Shared cache, injected into whatever needs it
	cache, err := utils.NewCache(500)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}

	// Services
	mailService := services.NewMailService()
	notifier := services.NewNotifier(mailService)
	badgeService := services.NewBadgeService(cache)

	// Initialize Gin
	r := gin.Default()

	// CORS for browser clients
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowAllOrigins = false
		corsConfig.AllowOrigins = []string{origins}
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("forumlink_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler(cache)
	commentHandler := handlers.NewCommentHandler(badgeService, notifier, cache)
	voteHandler := handlers.NewVoteHandler(badgeService, cache)
	userHandler := handlers.NewUserHandler(badgeService)
	notificationHandler := handlers.NewNotificationHandler()
	competitionHandler := handlers.NewCompetitionHandler()

	// Public Routes
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	api := r.Group("/api")
	{
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:pid", postHandler.Detail)
		api.GET("/posts/:pid/comments", commentHandler.Tree)
		api.GET("/users/:id", userHandler.Profile)
		api.GET("/competitions", competitionHandler.List)
	}

	// Protected Routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.DELETE("/posts/:pid", postHandler.Delete)
		authorized.POST("/posts/:pid/comments", commentHandler.Create)
		authorized.DELETE("/comments/:cid", commentHandler.Delete)
		authorized.POST("/vote/:type/:id", voteHandler.Upvote)
		authorized.POST("/vote/:type/:id/down", voteHandler.Downvote)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)

		authorized.POST("/competitions/:id/register", competitionHandler.Register)
		authorized.POST("/competitions/:id/pay", competitionHandler.ConfirmPayment)
		authorized.POST("/competitions/:id/submit", competitionHandler.Submit)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("forumlink server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
