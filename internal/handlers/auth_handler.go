// internal/handlers/auth_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput giriş formu gövdesi.
type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler kullanıcıyı doğrular, JWT üretir ve auth_token çerezine
// yazar. Token ayrıca gövdede döner (API istemcileri için).
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("login = ?", input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Kullanıcı adı veya şifre hatalı"})
		return
	}
	if user.IsActive != nil && !*user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Hesap devre dışı"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Kullanıcı adı veya şifre hatalı"})
		return
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"login":   user.Login,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token üretilemedi"})
		return
	}

	c.SetCookie("auth_token", signed, int(time.Until(expiresAt).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user": gin.H{
			"id":       user.ID,
			"login":    user.Login,
			"fullName": user.FullName,
			"role":     user.Role,
		},
	})
}

// LogoutHandler çerezi düşürür ve Redis'teki kullanıcı önbelleğini siler.
func LogoutHandler(c *gin.Context) {
	if userID, exists := c.Get("user_id"); exists && config.RDB != nil {
		config.RDB.Del(config.Ctx, fmt.Sprintf("user:%v:data", userID))
	}
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Çıkış yapıldı"})
}

// RegisterInput yeni kullanıcı gövdesi. Sadece admin çağırabilir.
type RegisterInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// RegisterHandler yeni panel kullanıcısı oluşturur.
func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := input.Role
	switch role {
	case "":
		role = models.RoleManager
	case models.RoleAdmin, models.RoleAccountant, models.RoleManager:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz rol"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Şifre işlenemedi"})
		return
	}

	user := models.User{
		Login:        input.Login,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Kullanıcı oluşturulamadı; giriş adı kullanımda olabilir"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "login": user.Login, "role": user.Role})
}
