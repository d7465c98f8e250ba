package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/worktrack-dev/worktrack/internal/handlers"
	"github.com/worktrack-dev/worktrack/internal/middleware"
)

func NewRouter(cronSecret string, allowedOrigins []string, reminderHandler *handlers.ReminderHandler, emailHandler *handlers.EmailHandler) *gin.Engine {
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	r.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.POST("/process-reminders", middleware.RequireCronToken(cronSecret), reminderHandler.ProcessReminders)
		api.POST("/send-email", emailHandler.SendEmail)
	}

	return r
}
