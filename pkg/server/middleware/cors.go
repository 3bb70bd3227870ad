package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows all origins; the well-known resource must be fetchable cross-origin
func CORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "PUT", "POST", "DELETE", "HEAD", "PATCH"}
	corsConfig.AllowHeaders = []string{"*"}
	return cors.New(corsConfig)
}
