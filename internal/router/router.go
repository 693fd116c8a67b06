package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/3w-social/backend/internal/handlers"
	"github.com/3w-social/backend/internal/middleware"
	"github.com/3w-social/backend/internal/repositories"
	"github.com/3w-social/backend/internal/services"
	"github.com/3w-social/backend/internal/upload"
	"github.com/3w-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, rateLimiter *middleware.RateLimiter) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.Logger())
	if rateLimiter != nil {
		e.Use(rateLimiter.Middleware())
	}
	log.Println("Global middleware configured.")
}

// Deps bundles everything the routes need beyond the Echo instance.
type Deps struct {
	Mongo        *mongo.Client
	Cfg          *config.Config
	FirebaseAuth *auth.Client // nil when social login is not configured
	Uploads      *upload.Saver
}

// SetupRoutes wires repositories, services and handlers, and returns the
// story service so main can hand it to the sweeper job.
func SetupRoutes(e *echo.Echo, deps Deps) *services.StoryService {
	db := deps.Mongo.Database(deps.Cfg.MongoDB)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.Static("/uploads", deps.Uploads.Dir())

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	messageRepo := repositories.NewMongoMessageRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	// --- Initialize Services ---
	fanout := services.NewNotificationService(notificationRepo)
	storyService := services.NewStoryService(userRepo, fanout)
	interactionService := services.NewInteractionService(postRepo, userRepo, fanout)
	friendshipService := services.NewFriendshipService(userRepo, notificationRepo, fanout)
	conversationService := services.NewConversationService(messageRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, deps.Cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("")
	api.Use(middleware.JWTAuthMiddleware(deps.Cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, postRepo, friendshipService)
	userHandler.RegisterUserRoutes(api)
	log.Println("User and connection routes configured.")

	postHandler := handlers.NewPostHandler(interactionService, userRepo, postRepo, deps.Uploads)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	storyHandler := handlers.NewStoryHandler(storyService, deps.Uploads)
	storyHandler.RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	messageHandler := handlers.NewMessageHandler(conversationService, deps.Uploads)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	notificationHandler := handlers.NewNotificationHandler(fanout, userRepo, postRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
	return storyService
}
