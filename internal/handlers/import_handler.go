// internal/handlers/import_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"
	"github.com/Erdalk05/akademihub-sub001/internal/importer"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
)

// PreviewImportHandler yüklenen Excel dosyasını okur ve eşlenen satırları
// kaydetmeden döner. Başlık eşleme hatası tüm dosyayı reddeder; satır
// hataları satır numarasıyla raporlanır.
func PreviewImportHandler(c *gin.Context) {
	result, ok := readUploadedFile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// CommitImportHandler yüklenen Excel dosyasındaki öğrencileri kaydeder.
// Her satır için öğrenci + indirim + eşit bölünmüş taksit planı tek
// transaction'da oluşturulur; bozuk satırlar atlanır ve raporlanır.
func CommitImportHandler(c *gin.Context) {
	result, ok := readUploadedFile(c)
	if !ok {
		return
	}

	firstDue, err := parseDateParam(c.PostForm("firstDueDate"), time.Now().AddDate(0, 1, 0))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz tarih biçimi. YYYY-MM-DD bekleniyor."})
		return
	}

	svc := billing.NewService(config.DB)
	var created int
	for _, row := range result.Rows {
		if err := importRow(svc, row, firstDue); err != nil {
			result.Errors = append(result.Errors, importer.RowError{
				RowNumber: row.RowNumber,
				Message:   err.Error(),
			})
			continue
		}
		created++
	}

	invalidateReportCache()
	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"errors":  result.Errors,
	})
}

func readUploadedFile(c *gin.Context) (importer.ImportResult, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dosya yüklenmedi"})
		return importer.ImportResult{}, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dosya açılamadı"})
		return importer.ImportResult{}, false
	}
	defer file.Close()

	result, err := importer.ReadStudents(file)
	if err != nil {
		var unmapped *importer.UnmappedColumnError
		if errors.As(err, &unmapped) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Zorunlu sütun eşlenemedi",
				"column":  unmapped.Column,
				"headers": unmapped.Headers,
			})
			return importer.ImportResult{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return importer.ImportResult{}, false
	}
	return result, true
}

// importRow tek Excel satırını öğrenci kaydına dönüştürür.
func importRow(svc *billing.Service, row importer.ImportedRow, firstDue time.Time) error {
	student := models.Student{
		ParentPhone: row.ParentPhone,
		NationalID:  row.NationalID,
	}
	parts := strings.Fields(row.StudentName)
	if len(parts) > 1 {
		student.LastName = parts[len(parts)-1]
		student.FirstName = strings.Join(parts[:len(parts)-1], " ")
	} else {
		student.FirstName = row.StudentName
	}
	if classID := resolveClassID(row.Class); classID != nil {
		student.ClassID = classID
	}

	var discount *models.Discount
	if row.DiscountPercent > 0 {
		pct := row.DiscountPercent
		discount = &models.Discount{Percent: &pct, Reason: "İçe aktarma"}
	}

	fee := billing.ResolveNetFee(row.TotalFee, discount)
	rows, err := billing.BuildSchedule(billing.ModeEven, billing.ScheduleParams{
		NetFee:           fee.NetFee,
		DownPayment:      row.DownPayment,
		DownPaymentDate:  firstDue,
		InstallmentCount: row.InstallmentCount,
		FirstDueDate:     firstDue,
	})
	if err != nil {
		return err
	}

	return svc.CommitEnrollment(&student, discount, rows, nil)
}

// resolveClassID "9-A" biçimindeki sınıf metnini kayıtlı sınıfa eşler.
func resolveClassID(name string) *uint {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 {
		return nil
	}
	grade, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	var class models.Class
	err = config.DB.
		Where("grade_number = ? AND UPPER(branch) = ?", grade, strings.ToUpper(strings.TrimSpace(parts[1]))).
		First(&class).Error
	if err != nil {
		return nil
	}
	return &class.ID
}
