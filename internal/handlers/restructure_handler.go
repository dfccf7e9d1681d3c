// internal/handlers/restructure_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"

	"github.com/gin-gonic/gin"
)

// RestructureInput borç yapılandırma gövdesi.
type RestructureInput struct {
	InstallmentCount int    `json:"installmentCount" binding:"required"`
	StartDate        string `json:"startDate" binding:"required"`
}

// RestructureStudentHandler öğrencinin kalan borcunu yeni bir eşit plana
// böler. Tahsilatlı satırlar arşive taşınır, geçmiş tahsilat toplamı
// değişmez. İşlem tek transaction'dır; yarım yapılandırma kalmaz.
func RestructureStudentHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	var input RestructureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	svc := billing.NewService(config.DB)
	plan, err := svc.Restructure(uint(studentID), input.InstallmentCount, startDate)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{
		"outstanding":  plan.Outstanding,
		"archived":     plan.Archived,
		"installments": plan.Active,
	})
}

// PreviewRestructureHandler yapılandırmayı kaydetmeden hesaplar.
func PreviewRestructureHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	var input RestructureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	svc := billing.NewService(config.DB)
	active, err := svc.ListInstallments(uint(studentID))
	if err != nil {
		respondBillingError(c, err)
		return
	}
	if len(active) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Öğrencinin aktif taksit planı yok"})
		return
	}

	plan, err := billing.PlanRestructure(active, input.InstallmentCount, startDate, time.Now())
	if err != nil {
		respondBillingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outstanding":  plan.Outstanding,
		"archived":     plan.Archived,
		"installments": plan.Active,
	})
}
