package handlers

import (
	"testing"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

func formWith(formulas ...string) models.PaymentForm {
	form := models.PaymentForm{Name: "test", InstallmentsCount: len(formulas)}
	for i, f := range formulas {
		form.Installments = append(form.Installments, models.PaymentInstallment{
			MonthOffset: i,
			Formula:     f,
		})
	}
	return form
}

func TestEvaluateFormAmountsEvenFormulas(t *testing.T) {
	form := formWith("Kalan / TaksitSayisi", "Kalan / TaksitSayisi", "Kalan / TaksitSayisi")
	firstDue := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	rows, err := evaluateFormAmounts(form, 100000, 0, firstDue, firstDue)
	if err != nil {
		t.Fatalf("evaluateFormAmounts: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("satır sayısı = %d, beklenen 3", len(rows))
	}

	var sum int64
	for _, r := range rows {
		sum += r.Amount
	}
	if sum != 100000 {
		t.Errorf("toplam = %d, beklenen 100000", sum)
	}
	// 100000/3 = 33333.33 -> yuvarlama farkı son taksitte
	if rows[0].Amount != 33333 || rows[2].Amount != 33334 {
		t.Errorf("tutarlar = [%d %d %d]", rows[0].Amount, rows[1].Amount, rows[2].Amount)
	}
}

func TestEvaluateFormAmountsDownPaymentRow(t *testing.T) {
	form := formWith("Kalan * 0.5", "Kalan * 0.5")
	firstDue := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dpDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	rows, err := evaluateFormAmounts(form, 120000, 20000, firstDue, dpDate)
	if err != nil {
		t.Fatalf("evaluateFormAmounts: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("satır sayısı = %d, beklenen 3 (peşinat + 2 taksit)", len(rows))
	}
	if rows[0].No != models.DownPaymentNo || rows[0].Amount != 20000 {
		t.Errorf("peşinat satırı = no %d tutar %d", rows[0].No, rows[0].Amount)
	}
	// peşinat kendi tarihini taşır, ilk vadeye yapışmaz
	if !rows[0].DueDate.Equal(dpDate) {
		t.Errorf("peşinat tarihi = %v, beklenen %v", rows[0].DueDate, dpDate)
	}
	if rows[1].DueDate.Equal(dpDate) {
		t.Errorf("1. taksit peşinat tarihine kaydı: %v", rows[1].DueDate)
	}

	var sum int64
	for _, r := range rows {
		sum += r.Amount
	}
	if sum != 120000 {
		t.Errorf("toplam = %d, beklenen 120000", sum)
	}
}

func TestEvaluateFormAmountsDueDates(t *testing.T) {
	form := models.PaymentForm{
		Name: "gunlu",
		Installments: []models.PaymentInstallment{
			{MonthOffset: 0, Day: 5, Formula: "Kalan / 2"},
			{MonthOffset: 1, Day: 20, Formula: "Kalan / 2"},
		},
	}
	firstDue := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	rows, err := evaluateFormAmounts(form, 50000, 0, firstDue, firstDue)
	if err != nil {
		t.Fatalf("evaluateFormAmounts: %v", err)
	}
	want0 := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	want1 := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	if !rows[0].DueDate.Equal(want0) {
		t.Errorf("1. vade = %v, beklenen %v", rows[0].DueDate, want0)
	}
	if !rows[1].DueDate.Equal(want1) {
		t.Errorf("2. vade = %v, beklenen %v", rows[1].DueDate, want1)
	}
}

func TestEvaluateFormAmountsRejectsBrokenFormula(t *testing.T) {
	form := formWith("Kalan +")
	if _, err := evaluateFormAmounts(form, 10000, 0, time.Now(), time.Now()); err == nil {
		t.Fatal("bozuk formül kabul edildi")
	}
}

func TestEvaluateFormAmountsRejectsNegativeFinalRow(t *testing.T) {
	// formüller toplamı kalandan çok büyük: fark son taksiti negatife düşürür
	form := formWith("Kalan * 2", "Kalan * 2")
	if _, err := evaluateFormAmounts(form, 10000, 0, time.Now(), time.Now()); err == nil {
		t.Fatal("tutarsız şablon kabul edildi")
	}
}

func TestEvaluateFormAmountsRejectsEmptyTemplate(t *testing.T) {
	if _, err := evaluateFormAmounts(models.PaymentForm{Name: "bos"}, 10000, 0, time.Now(), time.Now()); err == nil {
		t.Fatal("boş şablon kabul edildi")
	}
}
