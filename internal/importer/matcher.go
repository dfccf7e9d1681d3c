// internal/importer/matcher.go
package importer

import (
	"fmt"
	"strings"
)

// Kanonik kolon anahtarları. Motor sınırındaki kayıt şeması bu anahtarlar
// üzerinden kurulur; serbest metin başlık eşleme yalnızca bu adaptörde yaşar.
const (
	ColStudentName = "student_name"
	ColNationalID  = "national_id"
	ColClass       = "class"
	ColTotalFee    = "total_fee"
	ColDiscount    = "discount_percent"
	ColDownPayment = "down_payment"
	ColCount       = "installment_count"
	ColParentPhone = "parent_phone"
)

// requiredColumns olmadan bir satır motora aktarılamaz.
var requiredColumns = []string{ColStudentName, ColTotalFee, ColCount}

// columnSynonyms bildirimsel eş anlamlı tablosudur: okullardan gelen Excel
// dosyalarındaki başlık varyantlarını kanonik anahtara bağlar. Eşleme saf
// bir fonksiyondur, alt dize taraması yapılmaz; yeni varyant geldiğinde
// tabloya satır eklenir.
var columnSynonyms = map[string][]string{
	ColStudentName: {"ad soyad", "adı soyadı", "öğrenci", "öğrenci adı", "isim", "student", "student name", "full name"},
	ColNationalID:  {"tc", "tc kimlik", "tc kimlik no", "kimlik no", "national id"},
	ColClass:       {"sınıf", "sınıfı", "şube", "class", "grade"},
	ColTotalFee:    {"ücret", "toplam ücret", "yıllık ücret", "tutar", "fee", "total fee", "tuition"},
	ColDiscount:    {"indirim", "indirim %", "indirim yüzdesi", "burs", "discount", "discount %"},
	ColDownPayment: {"peşinat", "ön ödeme", "down payment", "advance"},
	ColCount:       {"taksit", "taksit sayısı", "taksit adedi", "installments", "installment count"},
	ColParentPhone: {"veli telefon", "veli tel", "telefon", "parent phone", "phone"},
}

// ColumnMap kanonik anahtardan sıfır tabanlı kolon indeksine eşlemedir.
type ColumnMap map[string]int

// UnmappedColumnError zorunlu bir kolonun hiçbir başlıkla eşleşmediğini
// açıkça bildirir; sessiz atlama yoktur.
type UnmappedColumnError struct {
	Column  string
	Headers []string
}

func (e *UnmappedColumnError) Error() string {
	return fmt.Sprintf("importer: zorunlu kolon %q başlıklarla eşleşmedi: %v", e.Column, e.Headers)
}

// MatchColumns başlık satırını eş anlamlı tablosuyla eşler. Eşleme
// normalize edilmiş (küçük harf, kırpılmış) tam eşitliktir. Zorunlu bir
// kolon eksikse tiplenmiş hata döner.
func MatchColumns(headers []string) (ColumnMap, error) {
	index := make(map[string]string, len(columnSynonyms)*4)
	for key, synonyms := range columnSynonyms {
		for _, syn := range synonyms {
			index[syn] = key
		}
	}

	mapped := make(ColumnMap)
	for i, header := range headers {
		norm := normalizeHeader(header)
		if key, ok := index[norm]; ok {
			if _, taken := mapped[key]; !taken {
				mapped[key] = i
			}
		}
	}

	for _, req := range requiredColumns {
		if _, ok := mapped[req]; !ok {
			return nil, &UnmappedColumnError{Column: req, Headers: headers}
		}
	}
	return mapped, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
