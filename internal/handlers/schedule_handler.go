// internal/handlers/schedule_handler.go
package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/Knetic/govaluate"
	"github.com/gin-gonic/gin"
)

// ListStudentInstallmentsHandler öğrencinin aktif taksitlerini döner.
// Listeleme sırasında vadesi geçmiş bekleyen satırlar "overdue" olarak
// işaretlenir ve kalıcılaştırılır.
func ListStudentInstallmentsHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	svc := billing.NewService(config.DB)
	rows, err := svc.ListInstallments(uint(studentID))
	if err != nil {
		respondBillingError(c, err)
		return
	}

	// Çalışan bakiye: her satırdan sonra kalan borç.
	var total, paid int64
	for _, r := range rows {
		total += r.Amount
		paid += r.PaidAmount
	}
	c.JSON(http.StatusOK, gin.H{
		"installments": rows,
		"totalAmount":  total,
		"paidAmount":   paid,
		"remaining":    total - paid,
	})
}

// ScheduleInput bağımsız plan önizleme / yeniden planlama gövdesi.
type ScheduleInput struct {
	NetFee           int64  `json:"netFee" binding:"required"`
	Mode             string `json:"mode"`
	DownPayment      int64  `json:"downPayment"`
	DownPaymentDate  string `json:"downPaymentDate"`
	InstallmentCount int    `json:"installmentCount"`
	FirstDueDate     string `json:"firstDueDate"`
	FirstAmount      int64  `json:"firstAmount"`
}

// PreviewScheduleHandler kaydetmeden plan satırlarını hesaplar. Kayıt
// sihirbazı dışındaki ekranlar (yapılandırma önizlemesi gibi) kullanır.
func PreviewScheduleHandler(c *gin.Context) {
	var input ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	firstDue, err := parseDateParam(input.FirstDueDate, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}
	dpDate, err := parseDateParam(input.DownPaymentDate, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	mode := input.Mode
	if mode == "" {
		mode = billing.ModeEven
	}
	rows, err := billing.BuildSchedule(mode, billing.ScheduleParams{
		NetFee:           input.NetFee,
		DownPayment:      input.DownPayment,
		DownPaymentDate:  dpDate,
		InstallmentCount: input.InstallmentCount,
		FirstDueDate:     firstDue,
		FirstAmount:      input.FirstAmount,
	})
	if err != nil {
		respondBillingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"installments": rows})
}

// ManualRowInput elle taksit satırı ekleme gövdesi.
type ManualRowInput struct {
	Amount  int64  `json:"amount" binding:"required"`
	DueDate string `json:"dueDate" binding:"required"`
}

// AddManualInstallmentHandler mevcut plana elle bir satır ekler. Elle
// eklenen satırlarda tutar yeniden hesaplanmaz; sorumluluk kullanıcıdadır.
func AddManualInstallmentHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	var input ManualRowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	if input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tutar pozitif olmalı"})
		return
	}

	svc := billing.NewService(config.DB)
	existing, err := svc.ListInstallments(uint(studentID))
	if err != nil {
		respondBillingError(c, err)
		return
	}

	// Yeni satır mevcut en büyük numaranın arkasına eklenir; mevcut
	// satırların numarası değişmez.
	nextNo := 1
	for _, r := range existing {
		if r.No >= nextNo {
			nextNo = r.No + 1
		}
	}
	newRow := models.Installment{
		StudentID: uint(studentID),
		No:        nextNo,
		Amount:    input.Amount,
		DueDate:   dueDate,
		Status:    models.InstallmentPending,
	}
	if err := svc.CreateSchedule(uint(studentID), []models.Installment{newRow}); err != nil {
		respondBillingError(c, err)
		return
	}

	invalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"message": "Taksit eklendi", "installment": newRow})
}

// --- Ödeme formu şablonları -------------------------------------------------

// ListPaymentFormsHandler tanımlı plan şablonlarını döner.
func ListPaymentFormsHandler(c *gin.Context) {
	var forms []models.PaymentForm
	if err := config.DB.Preload("Installments").Order("name ASC").Find(&forms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ödeme formları okunamadı"})
		return
	}
	c.JSON(http.StatusOK, forms)
}

// CreatePaymentFormHandler yeni bir plan şablonu kaydeder. Formüller
// kayıt anında derlenerek doğrulanır; bozuk formül reddedilir.
func CreatePaymentFormHandler(c *gin.Context) {
	var form models.PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, inst := range form.Installments {
		if _, err := govaluate.NewEvaluableExpression(inst.Formula); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Geçersiz formül: %s", inst.Formula)})
			return
		}
	}
	if err := config.DB.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ödeme formu kaydedilemedi"})
		return
	}
	c.JSON(http.StatusCreated, form)
}

// GeneratePlanFromFormInput şablondan plan üretme gövdesi.
type GeneratePlanFromFormInput struct {
	PaymentFormID   uint   `json:"paymentFormId" binding:"required"`
	NetFee          int64  `json:"netFee" binding:"required"`
	DownPayment     int64  `json:"downPayment"`
	DownPaymentDate string `json:"downPaymentDate"`
	FirstDueDate    string `json:"firstDueDate" binding:"required"`
}

// GeneratePlanFromFormHandler seçili şablonun formüllerini değerlendirip
// öğrenciye taksit planı yazar. Öğrencinin mevcut aktif planı yoksa
// kullanılmalıdır; varsa yapılandırma ucu tercih edilir.
func GeneratePlanFromFormHandler(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz öğrenci ID"})
		return
	}

	var input GeneratePlanFromFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	firstDue, err := time.Parse("2006-01-02", input.FirstDueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}
	dpDate, err := parseDateParam(input.DownPaymentDate, firstDue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	var form models.PaymentForm
	if err := config.DB.Preload("Installments").First(&form, input.PaymentFormID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ödeme formu bulunamadı"})
		return
	}

	rows, err := evaluateFormAmounts(form, input.NetFee, input.DownPayment, firstDue, dpDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := billing.NewService(config.DB)
	if err := svc.CreateSchedule(uint(studentID), rows); err != nil {
		respondBillingError(c, err)
		return
	}

	invalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"installments": rows})
}

// evaluateFormAmounts şablon formüllerini govaluate ile değerlendirir.
// Formül parametreleri: NetUcret, Pesinat, Kalan, TaksitSayisi.
// Yuvarlama farkı son taksite yedirilir; toplam net ücrete eşitlenir.
// Peşinat satırı kendi tarihini taşır (dpDate), ilk vadeye bağlı değildir.
func evaluateFormAmounts(form models.PaymentForm, netFee, downPayment int64, firstDue, dpDate time.Time) ([]models.Installment, error) {
	if len(form.Installments) == 0 {
		return nil, fmt.Errorf("şablonda taksit tanımı yok: %s", form.Name)
	}
	remaining := netFee - downPayment
	params := map[string]interface{}{
		"NetUcret":     float64(netFee),
		"Pesinat":      float64(downPayment),
		"Kalan":        float64(remaining),
		"TaksitSayisi": float64(len(form.Installments)),
	}

	rows := make([]models.Installment, 0, len(form.Installments))
	var sum int64
	for i, def := range form.Installments {
		expr, err := govaluate.NewEvaluableExpression(def.Formula)
		if err != nil {
			return nil, fmt.Errorf("geçersiz formül (%d. taksit): %w", i+1, err)
		}
		val, err := expr.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("formül değerlendirilemedi (%d. taksit): %w", i+1, err)
		}
		f, ok := val.(float64)
		if !ok {
			return nil, fmt.Errorf("formül sayısal sonuç vermedi (%d. taksit)", i+1)
		}
		amount := int64(math.Round(f))

		due := firstDue.AddDate(0, def.MonthOffset, 0)
		if def.Day > 0 {
			due = time.Date(due.Year(), due.Month(), def.Day, 0, 0, 0, 0, due.Location())
		}
		rows = append(rows, models.Installment{
			No:      i + 1,
			Amount:  amount,
			DueDate: due,
			Status:  models.InstallmentPending,
		})
		sum += amount
	}

	if diff := remaining - sum; diff != 0 {
		rows[len(rows)-1].Amount += diff
	}
	if rows[len(rows)-1].Amount < 0 {
		return nil, fmt.Errorf("formüller tutarsız plan üretti: son taksit negatif")
	}

	if downPayment > 0 {
		dp := models.Installment{
			No:      models.DownPaymentNo,
			Amount:  downPayment,
			DueDate: dpDate,
			Status:  models.InstallmentPending,
		}
		rows = append([]models.Installment{dp}, rows...)
	}
	return rows, nil
}
