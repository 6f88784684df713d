package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured client origin with credentials, so the browser
// sends the refresh cookie on cross-origin requests. An empty clientURL
// falls back to localhost dev origins.
func CORS(clientURL string) gin.HandlerFunc {
	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if clientURL != "" {
		origins = []string{clientURL}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
