// internal/handlers/handler_utils.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Erdalk05/akademihub-sub001/internal/billing"

	"github.com/gin-gonic/gin"
)

// respondBillingError motor hatalarını HTTP cevaplarına çevirir. Sentinel
// eşleşmeyen her şey 500'dür; motorun iç mesajı istemciye sızdırılmaz.
func respondBillingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, billing.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tutar"})
	case errors.Is(err, billing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Kayıt bulunamadı"})
	case errors.Is(err, billing.ErrConcurrentModification):
		// Yarışan işlem: istemci tüm operasyonu baştan denemeli.
		c.JSON(http.StatusConflict, gin.H{"error": "Kayıt eşzamanlı değiştirildi, lütfen tekrar deneyin"})
	case errors.Is(err, billing.ErrInconsistentSchedule):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Plan tutarları tutarsız"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sunucu hatası"})
	}
}

// parseDateParam "YYYY-MM-DD" biçimini bekler; boş dizge fallback döner.
func parseDateParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", value)
}
