// internal/handlers/report_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Erdalk05/akademihub-sub001/config"
	"github.com/Erdalk05/akademihub-sub001/internal/billing"
	"github.com/Erdalk05/akademihub-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const reportCacheTTL = 10 * time.Minute

// reportCacheKey yıl bazlı rapor önbellek anahtarı üretir.
func reportCacheKey(kind string, year int) string {
	return fmt.Sprintf("report:%s:%d", kind, year)
}

// invalidateReportCache defteri değiştiren her işlemden sonra çağrılır.
// Redis yoksa sessizce geçer; raporlar her istekte yeniden hesaplanır.
func invalidateReportCache() {
	if config.RDB == nil {
		return
	}
	keys, err := config.RDB.Keys(config.Ctx, "report:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := config.RDB.Del(config.Ctx, keys...).Err(); err != nil {
		slog.Warn("Rapor önbelleği temizlenemedi", "error", err)
	}
}

// loadAllLedgers rapor hesabı için tüm aktif öğrenci defterlerini tek
// tutarlı anlık görüntüden yükler (bkz. billing.Service.LoadAllLedgers).
func loadAllLedgers() ([]billing.StudentLedger, error) {
	return billing.NewService(config.DB).LoadAllLedgers()
}

// reportYear ?year= parametresini çözer; boşsa içinde bulunulan yıl.
func reportYear(c *gin.Context) int {
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 2000 {
		return y
	}
	return time.Now().Year()
}

// serveCached raporu önbellekten dener; yoksa compute çalıştırıp sonucu yazar.
func serveCached(c *gin.Context, key string, compute func() (interface{}, error)) {
	if config.RDB != nil {
		if cached, err := config.RDB.Get(config.Ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	result, err := compute()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rapor hesaplanamadı"})
		return
	}

	if config.RDB != nil {
		if body, err := json.Marshal(result); err == nil {
			if err := config.RDB.Set(config.Ctx, key, body, reportCacheTTL).Err(); err != nil {
				slog.Warn("Rapor önbelleğe yazılamadı", "key", key, "error", err)
			}
		}
	}
	c.JSON(http.StatusOK, result)
}

// MonthlyReportHandler seçili yılın aylık beklenen/tahsil edilen dökümünü
// döner. Kovalar vade tarihine göre takvim yılına oturur.
func MonthlyReportHandler(c *gin.Context) {
	year := reportYear(c)
	serveCached(c, reportCacheKey("monthly", year), func() (interface{}, error) {
		ledgers, err := loadAllLedgers()
		if err != nil {
			return nil, err
		}
		return gin.H{
			"year":    year,
			"monthly": billing.MonthlyCollection(ledgers, year),
		}, nil
	})
}

// PortfolioReportHandler yıl bazlı tam portföy raporunu döner: toplamlar,
// aylık kovalar, sınıf kırılımı, risk sayıları ve kural tabanlı içgörüler.
func PortfolioReportHandler(c *gin.Context) {
	year := reportYear(c)
	serveCached(c, reportCacheKey("portfolio", year), func() (interface{}, error) {
		ledgers, err := loadAllLedgers()
		if err != nil {
			return nil, err
		}
		report := billing.Aggregate(ledgers, year, time.Now(), config.App.Risk, config.App.Rules)
		return report, nil
	})
}

// StudentRiskHandler tek öğrencinin risk değerlendirmesini döner.
func StudentRiskHandler(c *gin.Context) {
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

	assessment := billing.ClassifyStudent(rows, time.Now(), config.App.Risk)
	c.JSON(http.StatusOK, assessment)
}

// debtorRow borçlu listesi satırı.
type debtorRow struct {
	models.Student
	ClassName    string `json:"className"`
	OverdueCount int64  `json:"overdueCount"`
}

// ListDebtorsHandler bakiyesi olan öğrencileri sayfalı döner; her satıra
// risk kademesi eklenir. Sıralama bakiyeye göre azalandır.
func ListDebtorsHandler(c *gin.Context) {
	var rows []debtorRow
	var total int64

	base := config.DB.Model(&models.Student{}).
		Where("is_studying = ?", true).
		Where("balance > 0")
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Borçlu sayısı okunamadı"})
		return
	}

	err := config.DB.Table("students s").
		Select(`
			s.*,
			(COALESCE(cl.grade_number::text, '') || '-' || COALESCE(cl.branch, '')) as class_name,
			(SELECT COUNT(*) FROM installments i
			 WHERE i.student_id = s.id AND i.deleted_at IS NULL AND i.status = ?) as overdue_count
		`, models.InstallmentOverdue).
		Joins("LEFT JOIN classes cl ON s.class_id = cl.id").
		Where("s.deleted_at IS NULL AND s.is_studying = ? AND s.balance > 0", true).
		Order("s.balance DESC").
		Scopes(Paginate(c)).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Borçlu listesi okunamadı"})
		return
	}

	type debtorOut struct {
		debtorRow
		RiskTier    string `json:"riskTier"`
		OverdueDays int    `json:"overdueDays"`
	}
	out := make([]debtorOut, 0, len(rows))
	for _, r := range rows {
		var installments []models.Installment
		if err := config.DB.Where("student_id = ?", r.ID).Find(&installments).Error; err != nil {
			continue
		}
		a := billing.ClassifyStudent(installments, time.Now(), config.App.Risk)
		out = append(out, debtorOut{debtorRow: r, RiskTier: a.Tier, OverdueDays: a.OverdueDays})
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, out, total))
}

// ExportDebtorsHandler borçlu listesini Excel olarak dışa aktarır.
func ExportDebtorsHandler(c *gin.Context) {
	var rows []debtorRow
	err := config.DB.Table("students s").
		Select(`
			s.*,
			(COALESCE(cl.grade_number::text, '') || '-' || COALESCE(cl.branch, '')) as class_name,
			(SELECT COUNT(*) FROM installments i
			 WHERE i.student_id = s.id AND i.deleted_at IS NULL AND i.status = ?) as overdue_count
		`, models.InstallmentOverdue).
		Joins("LEFT JOIN classes cl ON s.class_id = cl.id").
		Where("s.deleted_at IS NULL AND s.is_studying = ? AND s.balance > 0", true).
		Order("s.balance DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dışa aktarma verisi okunamadı"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Borçlular"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Öğrenci", "Sınıf", "Veli", "Veli Telefon", "Toplam", "Tahsil Edilen", "Bakiye", "Geciken Taksit"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.FullName())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.ClassName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.ParentName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.ParentPhone)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.TotalAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Collected)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Balance)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.OverdueCount)
	}

	fileName := fmt.Sprintf("borclular_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Excel dosyası yazılamadı"})
	}
}
