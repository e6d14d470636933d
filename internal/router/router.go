package router

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/anonto42/chirp/backend/internal/auth"
	"github.com/anonto42/chirp/backend/internal/handlers"
	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/anonto42/chirp/backend/pkg/config"
	"github.com/anonto42/chirp/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Stores are the repositories the services are built on
type Stores struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Notifications repositories.NotificationRepository
}

// Services holds everything the HTTP layer needs
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Posts         *services.PostService
	Notifications *services.NotificationService
	Cookies       auth.CookieConfig
}

// NewServices builds the service layer over stores and the media resolver
func NewServices(cfg *config.Config, stores Stores, media services.MediaResolver) Services {
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	return Services{
		Auth:          services.NewAuthService(stores.Users, tokens, cfg.BcryptCost),
		Users:         services.NewUserService(stores.Users, stores.Notifications, media, cfg.BcryptCost),
		Posts:         services.NewPostService(stores.Posts, stores.Users, stores.Notifications, media),
		Notifications: services.NewNotificationService(stores.Notifications, stores.Users),
		Cookies:       auth.CookieConfig{Secure: cfg.IsProduction()},
	}
}

// SetupMiddleware configures global Echo middleware, validation and error rendering
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	e.Validator = validators.NewValidator()
	e.Use(config.Middlewares(cfg)...)
	log.Println("Global middleware configured.")
}

// SetupRoutes migrates the stores, wires repositories into services and
// registers every route
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mongoDB *mongo.Database, media services.MediaResolver) error {
	if err := pgdb.AutoMigrate(&models.Notification{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repositories.EnsureIndexes(ctx, mongoDB); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	log.Println("MongoDB indexes ensured.")

	stores := Stores{
		Users:         repositories.NewMongoUserRepository(mongoDB),
		Posts:         repositories.NewMongoPostRepository(mongoDB),
		Notifications: repositories.NewPostgresNotificationRepository(pgdb),
	}
	RegisterRoutes(e, NewServices(cfg, stores, media))
	return nil
}

// RegisterRoutes mounts the public and session-protected API routes
func RegisterRoutes(e *echo.Echo, svc Services) {
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "chirp api"})
	})

	requireSession := middleware.JWTAuthMiddleware(svc.Auth)

	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Cookies)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"), requireSession)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(svc.Users)
	userHandler.RegisterUserRoutes(e.Group("/api/users", requireSession))
	log.Println("User routes configured.")

	postHandler := handlers.NewPostHandler(svc.Posts)
	postHandler.RegisterPostRoutes(e.Group("/api/posts", requireSession))
	log.Println("Post routes configured.")

	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	notificationHandler.RegisterNotificationRoutes(e.Group("/api/notifications", requireSession))
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
