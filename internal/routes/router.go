package routes

import (
	"github.com/Erdalk05/akademihub-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes uygulamanın tüm rotalarını kurar. Önce açık rotalar
// (giriş), sonra AuthMiddleware arkasındaki API grubu.
func SetupRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
