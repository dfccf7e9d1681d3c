// internal/handlers/student_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
)

// ListStudentsHandler öğrencileri sayfalı listeler. ?search= ad/soyad/veli
// üzerinde arar, ?class_id= sınıfa daraltır, ?status=left ayrılanları verir.
func ListStudentsHandler(c *gin.Context) {
	var students []models.Student
	var total int64

	query := config.DB.Model(&models.Student{}).Preload("Class")

	if c.Query("status") == "left" {
		query = query.Where("is_studying = ?", false)
	} else {
		query = query.Where("is_studying = ?", true)
	}
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(parent_name) LIKE ?",
			like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Öğrenci sayısı okunamadı"})
		return
	}
	if err := query.Order("last_name ASC, first_name ASC").Scopes(Paginate(c)).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Öğrenci listesi okunamadı"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, total))
}

// GetStudentHandler tek öğrenciyi tam defteriyle döner: aktif taksitler,
// arşivlenmiş taksitler, indirim kaydı ve risk değerlendirmesi.
func GetStudentHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	svc := billing.NewService(config.DB)
	ledger, err := svc.LoadLedger(uint(studentID))
	if err != nil {
		respondBillingError(c, err)
		return
	}

	assessment := billing.ClassifyStudent(ledger.Active, time.Now(), config.App.Risk)
	c.JSON(http.StatusOK, gin.H{
		"student":      ledger.Student,
		"installments": ledger.Active,
		"archived":     ledger.Archived,
		"risk":         assessment,
	})
}

// StudentInput öğrenci kartı güncelleme gövdesi. Mali alanlar bilinçli
// olarak yoktur; defter yalnızca ödeme/plan uçlarından değişir.
type StudentInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	NationalID  string `json:"nationalId"`
	ClassID     *uint  `json:"classId"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
	HomeAddress string `json:"homeAddress"`
	Comments    string `json:"comments"`
	IsStudying  *bool  `json:"isStudying"`
}

// UpdateStudentHandler öğrenci kartını günceller.
func UpdateStudentHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, studentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Öğrenci bulunamadı"})
		return
	}

	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.NationalID = input.NationalID
	student.ClassID = input.ClassID
	student.Gender = input.Gender
	student.Phone = input.Phone
	student.Email = input.Email
	student.ParentName = input.ParentName
	student.ParentPhone = input.ParentPhone
	student.ParentEmail = input.ParentEmail
	student.HomeAddress = input.HomeAddress
	student.Comments = input.Comments
	if input.IsStudying != nil {
		student.IsStudying = input.IsStudying
	}

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Öğrenci güncellenemedi"})
		return
	}
	c.JSON(http.StatusOK, student)
}
