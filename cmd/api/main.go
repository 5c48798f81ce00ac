package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"newsdesk/db"
	"newsdesk/internal/config"
	"newsdesk/internal/handler"
	"newsdesk/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	err = db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.Migrate(context.Background(), db.DB, slog.Default())
	if err != nil {
		log.Fatalf("error migrating DB: %v", err)
	}

	articleRepo := repository.NewArticleRepository(db.DB)
	preferenceRepo := repository.NewPreferenceRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	articleHandler := handler.NewArticleHandler(articleRepo, preferenceRepo)
	preferenceHandler := handler.NewPreferenceHandler(preferenceRepo)

	r := gin.Default()

	allowedOrigins := cfg.AllowedOrigins()

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))
	r.Use(handler.RequestID())

	api := r.Group("/api")
	api.GET("/health", articleHandler.GetHealth)

	auth := api.Group("", handler.RequireUser(userRepo))
	auth.GET("/user", handler.GetUser)
	auth.GET("/articles", articleHandler.GetArticles)
	auth.GET("/preferences", preferenceHandler.GetPreferences)
	auth.POST("/preferences", preferenceHandler.SavePreferences)
	auth.GET("/preference-options", articleHandler.GetPreferenceOptions)
	auth.GET("/authors/search", articleHandler.SearchAuthors)

	err = r.Run(cfg.HTTPAddr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
