// internal/handlers/enrollment_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DraftPayload çok adımlı kayıt sihirbazının biriken durumudur. Adımlar
// yalnızca bu yapıyı günceller; taksit tablosuna giden tek yol commit'tir.
type DraftPayload struct {
	Student struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		NationalID  string `json:"nationalId"`
		ClassID     *uint  `json:"classId"`
		Grade       *int   `json:"grade"`
		ParentName  string `json:"parentName"`
		ParentPhone string `json:"parentPhone"`
	} `json:"student"`

	Fee struct {
		TotalFee        int64    `json:"totalFee"`
		DiscountPercent *float64 `json:"discountPercent"`
		DiscountAmount  *int64   `json:"discountAmount"`
		DiscountReason  string   `json:"discountReason"`
	} `json:"fee"`

	Plan struct {
		Mode             string               `json:"mode"`
		DownPayment      int64                `json:"downPayment"`
		DownPaymentDate  string               `json:"downPaymentDate"`
		InstallmentCount int                  `json:"installmentCount"`
		FirstDueDate     string               `json:"firstDueDate"`
		FirstAmount      int64                `json:"firstAmount"`
		ManualRows       []models.Installment `json:"manualRows"`
	} `json:"plan"`
}

// CreateEnrollmentDraftHandler yeni bir sihirbaz taslağı açar.
func CreateEnrollmentDraftHandler(c *gin.Context) {
	draft := models.EnrollmentDraft{
		ID:      uuid.NewString(),
		Status:  models.DraftOpen,
		Payload: "{}",
	}
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(uint); ok {
			draft.CreatedBy = id
		}
	}

	if err := config.DB.Create(&draft).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Taslak oluşturulamadı"})
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// GetEnrollmentDraftHandler taslağı payload'ı çözülmüş halde döner.
func GetEnrollmentDraftHandler(c *gin.Context) {
	draft, payload, ok := loadDraft(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft, "payload": payload})
}

// UpdateDraftStudentHandler sihirbazın öğrenci adımını günceller.
func UpdateDraftStudentHandler(c *gin.Context) {
	updateDraftSection(c, func(payload *DraftPayload) error {
		return c.ShouldBindJSON(&payload.Student)
	})
}

// UpdateDraftFeeHandler ücret/indirim adımını günceller.
func UpdateDraftFeeHandler(c *gin.Context) {
	updateDraftSection(c, func(payload *DraftPayload) error {
		return c.ShouldBindJSON(&payload.Fee)
	})
}

// UpdateDraftPlanHandler taksit planı adımını günceller.
func UpdateDraftPlanHandler(c *gin.Context) {
	updateDraftSection(c, func(payload *DraftPayload) error {
		return c.ShouldBindJSON(&payload.Plan)
	})
}

// PreviewDraftScheduleHandler taslaktaki parametrelerle planı hesaplar ama
// hiçbir şey yazmaz: net ücret + taksit önizlemesi döner.
func PreviewDraftScheduleHandler(c *gin.Context) {
	_, payload, ok := loadDraft(c)
	if !ok {
		return
	}

	fee, rows, err := resolveDraftSchedule(payload)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fee":          fee,
		"installments": rows,
		"runningTotal": billing.ManualTotal(rows),
	})
}

// CommitEnrollmentDraftHandler taslağı deftere işler. Motora giden tek
// giriş noktası budur; başarılı commit taslağı kapatır.
func CommitEnrollmentDraftHandler(c *gin.Context) {
	draft, payload, ok := loadDraft(c)
	if !ok {
		return
	}
	if draft.Status == models.DraftCommitted {
		c.JSON(http.StatusConflict, gin.H{"error": "Taslak zaten commit edilmiş"})
		return
	}
	if payload.Student.FirstName == "" || payload.Student.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Öğrenci adımı eksik"})
		return
	}

	fee, rows, err := resolveDraftSchedule(payload)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	student := models.Student{
		FirstName:   payload.Student.FirstName,
		LastName:    payload.Student.LastName,
		NationalID:  payload.Student.NationalID,
		ClassID:     payload.Student.ClassID,
		ParentName:  payload.Student.ParentName,
		ParentPhone: payload.Student.ParentPhone,
	}
	var discount *models.Discount
	if payload.Fee.DiscountPercent != nil || payload.Fee.DiscountAmount != nil {
		discount = &models.Discount{
			Percent:     payload.Fee.DiscountPercent,
			FixedAmount: payload.Fee.DiscountAmount,
			Reason:      payload.Fee.DiscountReason,
		}
	}

	// Taslağın kapanışı öğrenciyle aynı transaction'da yazılır; commit ile
	// kapanış arasında açık taslak kalmaz, tekrar commit ikinci öğrenci
	// yaratamaz.
	svc := billing.NewService(config.DB)
	err = svc.CommitEnrollment(&student, discount, rows, func(tx *gorm.DB) error {
		draft.Status = models.DraftCommitted
		draft.StudentID = &student.ID
		return tx.Save(&draft).Error
	})
	if err != nil {
		respondBillingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"studentId":    student.ID,
		"netFee":       fee.NetFee,
		"installments": rows,
	})
}

// --- taslak yardımcıları -----------------------------------------------------

func loadDraft(c *gin.Context) (models.EnrollmentDraft, DraftPayload, bool) {
	var draft models.EnrollmentDraft
	var payload DraftPayload

	if err := config.DB.First(&draft, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Taslak bulunamadı"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Taslak okunamadı"})
		}
		return draft, payload, false
	}
	if err := json.Unmarshal([]byte(draft.Payload), &payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Taslak verisi bozuk"})
		return draft, payload, false
	}
	return draft, payload, true
}

func updateDraftSection(c *gin.Context, apply func(*DraftPayload) error) {
	draft, payload, ok := loadDraft(c)
	if !ok {
		return
	}
	if draft.Status == models.DraftCommitted {
		c.JSON(http.StatusConflict, gin.H{"error": "Commit edilmiş taslak değiştirilemez"})
		return
	}
	if err := apply(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Taslak verisi yazılamadı"})
		return
	}
	draft.Payload = string(raw)
	if err := config.DB.Save(&draft).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Taslak kaydedilemedi"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft, "payload": payload})
}

// resolveDraftSchedule taslaktan net ücreti ve taksit satırlarını üretir.
// Brüt ücret girilmemişse sınıf düzeyinin güncel ücreti kullanılır.
func resolveDraftSchedule(payload DraftPayload) (billing.FeeResult, []models.Installment, error) {
	totalFee := payload.Fee.TotalFee
	if totalFee == 0 && payload.Student.Grade != nil {
		var tf models.TuitionFee
		if err := config.DB.Where("grade = ?", *payload.Student.Grade).First(&tf).Error; err == nil {
			totalFee = tf.CurrentCost
		}
	}

	var discount *models.Discount
	if payload.Fee.DiscountPercent != nil || payload.Fee.DiscountAmount != nil {
		discount = &models.Discount{
			Percent:     payload.Fee.DiscountPercent,
			FixedAmount: payload.Fee.DiscountAmount,
		}
	}
	fee := billing.ResolveNetFee(totalFee, discount)

	if payload.Plan.Mode == billing.ModeManual {
		// Manuel mod: motor satırları yeniden yazmaz, yalnızca sıralar.
		rows := make([]models.Installment, 0, len(payload.Plan.ManualRows))
		for _, r := range payload.Plan.ManualRows {
			rows = billing.AddManualRow(rows, models.Installment{
				No: r.No, Amount: r.Amount, DueDate: r.DueDate,
				Status: models.InstallmentPending,
			})
		}
		return fee, rows, nil
	}

	firstDue, err := parseDateParam(payload.Plan.FirstDueDate, time.Time{})
	if err != nil {
		return fee, nil, billing.ErrInvalidAmount
	}
	dpDate, err := parseDateParam(payload.Plan.DownPaymentDate, time.Now())
	if err != nil {
		return fee, nil, billing.ErrInvalidAmount
	}

	rows, err := billing.BuildSchedule(payload.Plan.Mode, billing.ScheduleParams{
		NetFee:           fee.NetFee,
		DownPayment:      payload.Plan.DownPayment,
		DownPaymentDate:  dpDate,
		InstallmentCount: payload.Plan.InstallmentCount,
		FirstDueDate:     firstDue,
		FirstAmount:      payload.Plan.FirstAmount,
	})
	return fee, rows, err
}
