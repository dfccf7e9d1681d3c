// internal/handlers/payment_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// PaymentInput ödeme kaydı için istemciden gelen gövdedir. PaymentDate
// string'dir: otomatik tarih ayrıştırma hatalarından kaçınmak için elle
// çözülür (YYYY-MM-DD).
type PaymentInput struct {
	Amount      int64  `json:"amount" binding:"required"`
	Method      string `json:"method"`
	PaymentDate string `json:"paymentDate"`
}

// ApplyPaymentHandler bir taksite ödeme uygular. Kısmi ödeme desteklenir;
// öğrenci toplamları motor tarafından aynı transaction'da yeniden katlanır.
func ApplyPaymentHandler(c *gin.Context) {
	installmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz taksit ID"})
		return
	}

	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	paymentDate, err := parseDateParam(input.PaymentDate, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	svc := billing.NewService(config.DB)
	result, err := svc.ApplyPayment(uint(installmentID), input.Amount, input.Method, paymentDate)
	if err != nil {
		respondBillingError(c, err)
		return
	}

	invalidateReportCache()
	c.JSON(http.StatusOK, result)
}

// DeleteInstallmentHandler taksit satırını kalıcı olarak siler. Tahsilatlı
// bir satır silinirse öğrenci toplamı aynı işlemde düşer.
func DeleteInstallmentHandler(c *gin.Context) {
	installmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz taksit ID"})
		return
	}

	svc := billing.NewService(config.DB)
	if err := svc.DeleteInstallment(uint(installmentID)); err != nil {
		respondBillingError(c, err)
		return
	}

	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{"message": "Taksit silindi"})
}

// InstallmentReceiptHandler tahsilat makbuzu verisini döner; tutar yazıyla
// da verilir (makbuz şablonu için).
func InstallmentReceiptHandler(c *gin.Context) {
	installmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz taksit ID"})
		return
	}

	var inst models.Installment
	if err := config.DB.First(&inst, installmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Taksit bulunamadı"})
		return
	}
	if inst.PaidAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bu taksit için tahsilat yok"})
		return
	}

	var student models.Student
	if err := config.DB.Preload("Class").First(&student, inst.StudentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Öğrenci okunamadı"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"receiptNo":     fmt.Sprintf("MKB-%d-%d", inst.StudentID, inst.ID),
		"studentName":   student.FullName(),
		"installmentNo": inst.No,
		"amount":        inst.PaidAmount,
		"amountInWords": num2words.Convert(int(inst.PaidAmount)),
		"method":        inst.Method,
		"paidAt":        inst.PaidAt,
	})
}

// ExportInstallmentsHandler taksit listesini Excel olarak dışa aktarır.
func ExportInstallmentsHandler(c *gin.Context) {
	type exportRow struct {
		models.Installment
		StudentFullName string `json:"studentFullName"`
		StudentClass    string `json:"studentClass"`
	}
	var rows []exportRow

	query := config.DB.Table("installments i").
		Select(`
			i.*,
			(s.last_name || ' ' || s.first_name) as student_full_name,
			(COALESCE(cl.grade_number::text, '') || '-' || COALESCE(cl.branch, '')) as student_class
		`).
		Joins("LEFT JOIN students s ON i.student_id = s.id").
		Joins("LEFT JOIN classes cl ON s.class_id = cl.id").
		Where("i.deleted_at IS NULL").
		Order("i.due_date ASC")

	if status := c.Query("status"); status != "" {
		query = query.Where("i.status = ?", status)
	}
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("s.class_id = ?", classID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dışa aktarma verisi okunamadı"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Taksitler"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Öğrenci", "Sınıf", "Taksit No", "Tutar", "Vade", "Tahsil Edilen", "Durum", "Yöntem"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.StudentFullName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.StudentClass)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.No)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.DueDate.Format("02.01.2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.PaidAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.Method)
	}

	fileName := fmt.Sprintf("taksitler_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Excel dosyası yazılamadı"})
	}
}
