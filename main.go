package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maplenotes/config"
	"maplenotes/handler"
	"maplenotes/middleware"
	"maplenotes/repository"
	"maplenotes/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file when one exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Skipping .env file: %v", err)
	}
}

// newStore builds the storage adapter selected by configuration. The
// returned Store is the single long-lived handle shared by every
// request.
func newStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		return repository.NewMongoStore(ctx, cfg.Mongo)
	case config.BackendDynamo:
		return repository.NewDynamoStore(ctx, cfg.Dynamo)
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil
	default:
		return nil, errors.New("unknown storage backend " + cfg.Backend)
	}
}

func setupRouter(store repository.Store) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	userService := &usecase.UserService{Store: store}
	notesService := &usecase.NotesService{Store: store}

	router.GET("/health", func(c *gin.Context) {
		handler.HealthHandler(c, store)
	})
	router.GET("/health/stats", handler.StatsHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/signup", func(c *gin.Context) {
			handler.SignupHandler(c, userService)
		})
		auth.POST("/login", func(c *gin.Context) {
			handler.LoginHandler(c, userService)
		})
	}

	notes := router.Group("/notes")
	{
		notes.GET("/:userId", func(c *gin.Context) {
			handler.GetUserNotesHandler(c, notesService)
		})
		notes.POST("", func(c *gin.Context) {
			handler.CreateNoteHandler(c, notesService)
		})
		notes.DELETE("/:noteId", func(c *gin.Context) {
			handler.DeleteNoteHandler(c, notesService)
		})
	}

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := newStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.Backend, err)
	}
	log.Printf("Connected to %s storage", store.Backend())

	router := setupRouter(store)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	log.Printf("Caught signal %s, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if mongoStore, ok := store.(*repository.MongoStore); ok {
		if err := mongoStore.Disconnect(shutdownCtx); err != nil {
			log.Printf("MongoDB disconnect error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
}
