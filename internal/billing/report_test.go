package billing

import (
	"reflect"
	"testing"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"

	"gorm.io/gorm"
)

func classPtr(id uint) *uint { return &id }

func testLedgers(year int) []StudentLedger {
	due := func(month time.Month) time.Time {
		return time.Date(year, month, 5, 0, 0, 0, 0, time.UTC)
	}
	classA := &models.Class{ID: 1, GradeNumber: 9, Branch: "A"}
	classB := &models.Class{ID: 2, GradeNumber: 9, Branch: "B"}

	return []StudentLedger{
		{
			// Tamamı ödenmiş öğrenci.
			Student: models.Student{Model: gormModel(1), ClassID: classPtr(1), Class: classA},
			Active: []models.Installment{
				{No: 1, Amount: 10000, PaidAmount: 10000, DueDate: due(time.January), Status: models.InstallmentPaid},
				{No: 2, Amount: 10000, PaidAmount: 10000, DueDate: due(time.February), Status: models.InstallmentPaid},
			},
		},
		{
			// Kısmen ödemiş, gecikmiş öğrenci.
			Student: models.Student{Model: gormModel(2), ClassID: classPtr(1), Class: classA},
			Active: []models.Installment{
				{No: 1, Amount: 10000, PaidAmount: 10000, DueDate: due(time.January), Status: models.InstallmentPaid},
				{No: 2, Amount: 10000, DueDate: due(time.February), Status: models.InstallmentOverdue},
			},
		},
		{
			// Burslu öğrenci (borcu yok).
			Student: models.Student{Model: gormModel(3), ClassID: classPtr(2), Class: classB},
		},
		{
			// Hiç ödeme yapmamış öğrenci.
			Student: models.Student{Model: gormModel(4), ClassID: classPtr(2), Class: classB},
			Active: []models.Installment{
				{No: 1, Amount: 20000, DueDate: due(time.March), Status: models.InstallmentPending},
			},
		},
	}
}

func gormModel(id uint) gorm.Model { return gorm.Model{ID: id} }

func TestMonthlyCollection(t *testing.T) {
	year := 2026
	buckets := MonthlyCollection(testLedgers(year), year)

	if len(buckets) != 12 {
		t.Fatalf("got %d buckets, want 12", len(buckets))
	}

	jan := buckets[0]
	if jan.Expected != 20000 || jan.Collected != 20000 || jan.Rate != 100 {
		t.Errorf("january = %+v, want expected 20000 collected 20000 rate 100", jan)
	}

	feb := buckets[1]
	if feb.Expected != 20000 || feb.Collected != 10000 || feb.Rate != 50 {
		t.Errorf("february = %+v, want expected 20000 collected 10000 rate 50", feb)
	}

	mar := buckets[2]
	if mar.Expected != 20000 || mar.Collected != 0 || mar.Rate != 0 {
		t.Errorf("march = %+v, want expected 20000 collected 0 rate 0", mar)
	}

	// Boş ay: oran 0, sıfıra bölme yok.
	if buckets[5].Rate != 0 || buckets[5].Expected != 0 {
		t.Errorf("june = %+v, want empty bucket", buckets[5])
	}

	// Kümülatif gelir Ocak'tan itibaren akar.
	wantCumulative := []int64{20000, 30000, 30000}
	for i, want := range wantCumulative {
		if buckets[i].Cumulative != want {
			t.Errorf("cumulative[%d] = %d, want %d", i, buckets[i].Cumulative, want)
		}
	}
	if buckets[11].Cumulative != 30000 {
		t.Errorf("december cumulative = %d, want 30000", buckets[11].Cumulative)
	}
}

// Farklı yıla düşen vadeler kovalara girmez: raporlama dönemi takvim yılıdır.
func TestMonthlyCollectionFiltersByCalendarYear(t *testing.T) {
	ledgers := []StudentLedger{{
		Student: models.Student{Model: gormModel(1)},
		Active: []models.Installment{
			{Amount: 10000, DueDate: time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)},
			{Amount: 10000, DueDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)},
		},
	}}
	buckets := MonthlyCollection(ledgers, 2026)
	var expected int64
	for _, b := range buckets {
		expected += b.Expected
	}
	if expected != 10000 {
		t.Errorf("total expected = %d, want 10000 (2025 row excluded)", expected)
	}
}

func TestAggregate(t *testing.T) {
	year := 2026
	today := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	report := Aggregate(testLedgers(year), year, today, DefaultRiskThresholds(), DefaultInsightRules())

	if report.StudentCount != 4 {
		t.Errorf("StudentCount = %d, want 4", report.StudentCount)
	}
	if report.TotalAmount != 60000 || report.Collected != 30000 {
		t.Errorf("totals = %d/%d, want 60000/30000", report.TotalAmount, report.Collected)
	}
	if report.Outstanding != 30000 {
		t.Errorf("Outstanding = %d, want 30000", report.Outstanding)
	}
	if report.CollectionRate != 50 {
		t.Errorf("CollectionRate = %v, want 50", report.CollectionRate)
	}

	if len(report.Classes) != 2 {
		t.Fatalf("got %d classes, want 2", len(report.Classes))
	}
	classA := report.Classes[0]
	if classA.ClassName != "9-A" {
		t.Fatalf("first class = %q, want 9-A (sorted)", classA.ClassName)
	}
	if classA.TotalAmount != 40000 || classA.Collected != 30000 {
		t.Errorf("9-A totals = %d/%d, want 40000/30000", classA.TotalAmount, classA.Collected)
	}
	if classA.CollectionRate != 75 {
		t.Errorf("9-A rate = %v, want 75", classA.CollectionRate)
	}
	// averageFee = totalAmount / paidStudentCount (ödeme yapan 2 öğrenci).
	if classA.PaidStudentCount != 2 || classA.AverageFee != 20000 {
		t.Errorf("9-A paid=%d avg=%d, want 2/20000", classA.PaidStudentCount, classA.AverageFee)
	}

	classB := report.Classes[1]
	// Ödeme yapan öğrenci yok: averageFee 0, sıfıra bölme yok.
	if classB.PaidStudentCount != 0 || classB.AverageFee != 0 {
		t.Errorf("9-B paid=%d avg=%d, want 0/0", classB.PaidStudentCount, classB.AverageFee)
	}
	if classB.FreeStudentCount != 1 {
		t.Errorf("9-B free = %d, want 1", classB.FreeStudentCount)
	}

	if report.RiskCounts[RiskLow] != 4 {
		t.Errorf("risk counts = %v, want all 4 low (debts under thresholds)", report.RiskCounts)
	}
}

// aggregate saf bir fonksiyondur: aynı girdiyle iki çağrı birebir aynı
// sonucu verir ve girdiyi değiştirmez.
func TestAggregateIdempotent(t *testing.T) {
	year := 2026
	today := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	ledgers := testLedgers(year)

	first := Aggregate(ledgers, year, today, DefaultRiskThresholds(), DefaultInsightRules())
	second := Aggregate(ledgers, year, today, DefaultRiskThresholds(), DefaultInsightRules())

	if !reflect.DeepEqual(first, second) {
		t.Error("two aggregations over unchanged data differ")
	}
}
