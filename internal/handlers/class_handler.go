// internal/handlers/class_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
)

// ListClassesHandler sınıfları döner.
func ListClassesHandler(c *gin.Context) {
	var classes []models.Class
	if err := config.DB.Order("grade_number ASC, branch ASC").Find(&classes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sınıf listesi okunamadı"})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// CreateClassHandler yeni sınıf oluşturur.
func CreateClassHandler(c *gin.Context) {
	var input models.ClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class := models.Class{
		GradeNumber: input.GradeNumber,
		Branch:      input.Branch,
		Language:    input.Language,
		StudyType:   input.StudyType,
	}
	if err := config.DB.Create(&class).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sınıf kaydedilemedi"})
		return
	}
	c.JSON(http.StatusCreated, class)
}

// ListTuitionFeesHandler sınıf düzeyi bazlı ücret tarifesini döner.
func ListTuitionFeesHandler(c *gin.Context) {
	var fees []models.TuitionFee
	if err := config.DB.Order("grade ASC").Find(&fees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ücret tarifesi okunamadı"})
		return
	}
	c.JSON(http.StatusOK, fees)
}

// TuitionFeeInput tarife güncelleme gövdesi.
type TuitionFeeInput struct {
	CurrentCost int64 `json:"currentCost" binding:"required"`
}

// UpsertTuitionFeeHandler bir sınıf düzeyinin güncel ücretini yazar.
// Kayıt yoksa oluşturulur; varsa eski ücret previous_cost alanına kayar.
func UpsertTuitionFeeHandler(c *gin.Context) {
	grade, err := strconv.Atoi(c.Param("grade"))
	if err != nil || grade < 0 || grade > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz sınıf düzeyi"})
		return
	}

	var input TuitionFeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.CurrentCost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ücret negatif olamaz"})
		return
	}

	var fee models.TuitionFee
	result := config.DB.Where("grade = ?", grade).First(&fee)
	if result.Error != nil {
		fee = models.TuitionFee{Grade: grade, CurrentCost: input.CurrentCost}
		if err := config.DB.Create(&fee).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ücret kaydedilemedi"})
			return
		}
		c.JSON(http.StatusCreated, fee)
		return
	}

	fee.PreviousCost = fee.CurrentCost
	fee.CurrentCost = input.CurrentCost
	if err := config.DB.Save(&fee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ücret güncellenemedi"})
		return
	}
	c.JSON(http.StatusOK, fee)
}
