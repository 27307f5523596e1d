package middlewares

import (
	"fmt"
	"time"

	"drillhole/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS（Cross-Origin Resource Sharing）ポリシーを設定。
// AllowOrigins に "*" が含まれる場合は全てのオリジンを許可する
func CORS(cc models.CORSConfig) (gin.HandlerFunc, error) {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if allowsAll(cc.AllowOrigins) {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = cc.AllowOrigins
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("cors config: %w", err)
	}
	return cors.New(config), nil
}

func allowsAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
