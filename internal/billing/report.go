// internal/billing/report.go
package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// StudentLedger rapor ve risk hesaplarının girdisi olan tutarlı anlık
// görüntüdür. Aggregate yalnızca bu görüntüleri okur, hiçbir şeyi yazmaz;
// aynı girdiyle iki kez çağrılması birebir aynı sonucu üretir.
type StudentLedger struct {
	Student  models.Student
	Active   []models.Installment
	Archived []models.ArchivedInstallment
}

// MonthlyBucket takvim yılının tek bir ayına düşen beklenen/tahsil edilen
// tutarları taşır.
type MonthlyBucket struct {
	Month     time.Month `json:"month"`
	Expected  int64      `json:"expected"`
	Collected int64      `json:"collected"`
	Rate      float64    `json:"rate"`
	// Cumulative Ocak'tan bu aya kadar tahsil edilen toplam gelirdir.
	Cumulative int64 `json:"cumulativeRevenue"`
}

// ClassReport tek sınıfın kohort istatistikleridir.
type ClassReport struct {
	ClassID             uint    `json:"classId"`
	ClassName           string  `json:"className"`
	StudentCount        int     `json:"studentCount"`
	PaidStudentCount    int     `json:"paidStudentCount"`
	FreeStudentCount    int     `json:"freeStudentCount"`
	TotalAmount         int64   `json:"totalAmount"`
	Collected           int64   `json:"collected"`
	CollectionRate      float64 `json:"collectionRate"`
	AverageFee          int64   `json:"averageFee"`
	OverdueInstallments int     `json:"overdueInstallments"`
	CriticalRiskCount   int     `json:"criticalRiskCount"`
	RiskScore           float64 `json:"riskScore"`
}

// PortfolioReport tüm portföyün türetilmiş raporudur; hiçbir alanı kalıcı
// veri olarak saklanmaz, her çağrıda satırlardan yeniden hesaplanır.
type PortfolioReport struct {
	Year             int             `json:"year"`
	StudentCount     int             `json:"studentCount"`
	TotalAmount      int64           `json:"totalAmount"`
	Collected        int64           `json:"collected"`
	Outstanding      int64           `json:"outstanding"`
	CollectionRate   float64         `json:"collectionRate"`
	Monthly          []MonthlyBucket `json:"monthly"`
	Classes          []ClassReport   `json:"classes"`
	RiskCounts       map[string]int  `json:"riskCounts"`
	Insights         []Insight       `json:"insights"`
}

// MonthlyCollection taksitleri vade tarihinin ayına göre verilen takvim
// yılının on iki kovasına dağıtır. Akademik yıl değil takvim yılı esastır.
func MonthlyCollection(ledgers []StudentLedger, year int) []MonthlyBucket {
	buckets := make([]MonthlyBucket, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
	}

	for _, led := range ledgers {
		for _, inst := range led.Active {
			if inst.DueDate.Year() != year {
				continue
			}
			b := &buckets[int(inst.DueDate.Month())-1]
			b.Expected += inst.Amount
			if inst.Status == models.InstallmentPaid {
				b.Collected += inst.Amount
			}
		}
	}

	var cumulative int64
	for i := range buckets {
		if buckets[i].Expected > 0 {
			buckets[i].Rate = float64(buckets[i].Collected) / float64(buckets[i].Expected) * 100
		}
		cumulative += buckets[i].Collected
		buckets[i].Cumulative = cumulative
	}
	return buckets
}

// Aggregate birçok öğrencinin defterini sınıf ve portföy istatistiklerine
// katlar. Saf bir fonksiyondur: girdiyi değiştirmez, yan etkisi yoktur.
func Aggregate(ledgers []StudentLedger, year int, today time.Time, th RiskThresholds, rules []InsightRule) PortfolioReport {
	report := PortfolioReport{
		Year:       year,
		RiskCounts: map[string]int{RiskCritical: 0, RiskHigh: 0, RiskMedium: 0, RiskLow: 0},
		Monthly:    MonthlyCollection(ledgers, year),
	}

	type classAcc struct {
		report ClassReport
	}
	classes := make(map[uint]*classAcc)

	for _, led := range ledgers {
		agg := FoldAggregates(led.Active, led.Archived)
		assessment := ClassifyStudent(led.Active, today, th)

		report.StudentCount++
		report.TotalAmount += agg.TotalAmount
		report.Collected += agg.Collected
		report.RiskCounts[assessment.Tier]++

		var classID uint
		className := "Sınıfsız"
		if led.Student.ClassID != nil {
			classID = *led.Student.ClassID
		}
		if led.Student.Class != nil {
			className = fmt.Sprintf("%d-%s", led.Student.Class.GradeNumber, led.Student.Class.Branch)
		}

		acc, ok := classes[classID]
		if !ok {
			acc = &classAcc{report: ClassReport{ClassID: classID, ClassName: className}}
			classes[classID] = acc
		}
		cr := &acc.report
		cr.StudentCount++
		cr.TotalAmount += agg.TotalAmount
		cr.Collected += agg.Collected
		if agg.Collected > 0 {
			cr.PaidStudentCount++
		}
		if agg.TotalAmount == 0 {
			cr.FreeStudentCount++
		}
		if assessment.Tier == RiskCritical {
			cr.CriticalRiskCount++
		}
		for _, inst := range led.Active {
			if inst.Status == models.InstallmentOverdue {
				cr.OverdueInstallments++
			}
		}
	}

	report.Outstanding = report.TotalAmount - report.Collected
	if report.TotalAmount > 0 {
		report.CollectionRate = float64(report.Collected) / float64(report.TotalAmount) * 100
	}

	for _, acc := range classes {
		cr := acc.report
		if cr.TotalAmount > 0 {
			cr.CollectionRate = float64(cr.Collected) / float64(cr.TotalAmount) * 100
		}
		if cr.PaidStudentCount > 0 {
			cr.AverageFee = cr.TotalAmount / int64(cr.PaidStudentCount)
		}
		cr.RiskScore = CohortRiskScore(cr.CollectionRate, cr.OverdueInstallments, cr.PaidStudentCount)
		report.Classes = append(report.Classes, cr)
	}
	sort.Slice(report.Classes, func(i, j int) bool {
		return report.Classes[i].ClassName < report.Classes[j].ClassName
	})

	report.Insights = EvaluateReportInsights(rules, report)
	return report
}
