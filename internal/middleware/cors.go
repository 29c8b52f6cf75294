package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the local dev origins plus any configured ones. Preflight
// requests are answered here, before auth runs.
func CORS(extra []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = append(append([]string{}, devOrigins...), extra...)
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Content-Type", "Content-Length", "Authorization", "Accept", "Origin", "X-Requested-With", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"Content-Length", "Content-Disposition", "X-Request-ID"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 10 * time.Minute
	return cors.New(cfg)
}
