// internal/importer/reader.go
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportedRow bir Excel satırının motor sınırında doğrulanmış halidir.
// Gevşek tipli hücreler burada açık şemaya dönüştürülür; motor asla ham
// hücre değeri görmez.
type ImportedRow struct {
	RowNumber        int     `json:"rowNumber"`
	StudentName      string  `json:"studentName"`
	NationalID       string  `json:"nationalId"`
	Class            string  `json:"class"`
	TotalFee         int64   `json:"totalFee"`
	DiscountPercent  float64 `json:"discountPercent"`
	DownPayment      int64   `json:"downPayment"`
	InstallmentCount int     `json:"installmentCount"`
	ParentPhone      string  `json:"parentPhone"`
}

// RowError tek satırın neden içe aktarılamadığını taşır; toplu içe
// aktarma tek bozuk satır yüzünden durmaz.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

// ImportResult eşlenen satırlar + açık satır hatalarıdır.
type ImportResult struct {
	Rows   []ImportedRow `json:"rows"`
	Errors []RowError    `json:"errors"`
}

// ReadStudents ilk sayfadaki başlık satırını eşler ve veri satırlarını
// tipler. Başlık eşleme hatası tüm dosyayı reddeder; satır düzeyindeki
// dönüşüm hataları sonuçta ayrı ayrı raporlanır.
func ReadStudents(r io.Reader) (ImportResult, error) {
	var result ImportResult

	f, err := excelize.OpenReader(r)
	if err != nil {
		return result, fmt.Errorf("importer: dosya okunamadı: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return result, fmt.Errorf("importer: dosyada sayfa yok")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return result, fmt.Errorf("importer: satırlar okunamadı: %w", err)
	}
	if len(rows) < 2 {
		return result, fmt.Errorf("importer: başlık satırından sonra veri yok")
	}

	mapping, err := MatchColumns(rows[0])
	if err != nil {
		return result, err
	}

	for i, row := range rows[1:] {
		rowNo := i + 2 // Excel satır numarası (1 tabanlı, başlık dahil)
		parsed, err := parseRow(row, mapping, rowNo)
		if err != nil {
			result.Errors = append(result.Errors, RowError{RowNumber: rowNo, Message: err.Error()})
			continue
		}
		result.Rows = append(result.Rows, parsed)
	}
	return result, nil
}

func parseRow(row []string, mapping ColumnMap, rowNo int) (ImportedRow, error) {
	out := ImportedRow{RowNumber: rowNo, InstallmentCount: 1}

	cell := func(key string) string {
		idx, ok := mapping[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	out.StudentName = cell(ColStudentName)
	if out.StudentName == "" {
		return out, fmt.Errorf("öğrenci adı boş")
	}
	out.NationalID = cell(ColNationalID)
	out.Class = cell(ColClass)
	out.ParentPhone = cell(ColParentPhone)

	fee, err := parseAmount(cell(ColTotalFee))
	if err != nil {
		return out, fmt.Errorf("ücret çözümlenemedi: %v", err)
	}
	out.TotalFee = fee

	if v := cell(ColDiscount); v != "" {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return out, fmt.Errorf("indirim çözümlenemedi: %v", err)
		}
		out.DiscountPercent = pct
	}
	if v := cell(ColDownPayment); v != "" {
		dp, err := parseAmount(v)
		if err != nil {
			return out, fmt.Errorf("peşinat çözümlenemedi: %v", err)
		}
		out.DownPayment = dp
	}
	if v := cell(ColCount); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return out, fmt.Errorf("taksit sayısı geçersiz: %q", v)
		}
		out.InstallmentCount = n
	}
	return out, nil
}

// parseAmount "12.500", "12500,00" gibi yerel biçimleri tam TL'ye çevirir.
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("boş değer")
	}
	s = strings.ReplaceAll(s, ".", "")
	if i := strings.IndexAny(s, ","); i >= 0 {
		s = s[:i] // kuruş kısmı atılır, kurum tam TL faturalar
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
