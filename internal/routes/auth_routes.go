package routes

import (
	"github.com/Erdalk05/akademihub-sub001/internal/handlers"
	"github.com/Erdalk05/akademihub-sub001/internal/middleware"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes kimlik doğrulama rotalarını kaydeder. Giriş açıktır;
// kullanıcı oluşturma ve çıkış token ister.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/logout", handlers.LogoutHandler)
		auth.POST("/register", middleware.RoleMiddleware(models.RoleAdmin), handlers.RegisterHandler)
	}
}
