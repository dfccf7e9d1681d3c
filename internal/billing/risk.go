// internal/billing/risk.go
package billing

import (
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// Risk katmanları.
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

// RiskThresholds sınıflandırma eşikleridir. Sabit değildir; yapılandırma
// dosyasından gelir (config.Load). Sıfır değerli bir alan seti
// DefaultRiskThresholds ile doldurulmalıdır.
type RiskThresholds struct {
	CriticalDays int   `mapstructure:"critical_days"`
	HighDays     int   `mapstructure:"high_days"`
	MediumDays   int   `mapstructure:"medium_days"`
	CriticalDebt int64 `mapstructure:"critical_debt"`
	HighDebt     int64 `mapstructure:"high_debt"`
	MediumDebt   int64 `mapstructure:"medium_debt"`
}

// DefaultRiskThresholds kurumun standart eşiklerini döner (TL).
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		CriticalDays: 90, HighDays: 60, MediumDays: 30,
		CriticalDebt: 50000, HighDebt: 30000, MediumDebt: 15000,
	}
}

// RiskAssessment tek öğrencinin risk değerlendirmesidir.
type RiskAssessment struct {
	Tier        string `json:"tier"`
	OverdueDays int    `json:"overdueDays"`
	TotalDebt   int64  `json:"totalDebt"`
}

// ClassifyStudent öğrencinin aktif taksitlerinden risk katmanını türetir.
//
//   - overdueDays: en eski ödenmemiş vadeden bugüne geçen tam gün sayısı
//   - totalDebt: vadesi geçmiş ve paid olmayan taksitlerin kalan toplamı
//
// Katmanlar sırayla değerlendirilir, ilk eşleşme kazanır.
func ClassifyStudent(active []models.Installment, today time.Time, th RiskThresholds) RiskAssessment {
	day := truncateDay(today)

	var debt int64
	var oldestUnpaid *time.Time
	for _, inst := range active {
		if inst.Status == models.InstallmentPaid || inst.PaidAmount >= inst.Amount {
			continue
		}
		due := truncateDay(inst.DueDate)
		if !due.Before(day) {
			continue
		}
		debt += inst.Amount - inst.PaidAmount
		if oldestUnpaid == nil || due.Before(*oldestUnpaid) {
			d := due
			oldestUnpaid = &d
		}
	}

	overdueDays := 0
	if oldestUnpaid != nil {
		overdueDays = int(day.Sub(*oldestUnpaid).Hours() / 24)
	}

	tier := RiskLow
	switch {
	case overdueDays > th.CriticalDays || debt > th.CriticalDebt:
		tier = RiskCritical
	case overdueDays > th.HighDays || debt > th.HighDebt:
		tier = RiskHigh
	case overdueDays > th.MediumDays || debt > th.MediumDebt:
		tier = RiskMedium
	}

	return RiskAssessment{Tier: tier, OverdueDays: overdueDays, TotalDebt: debt}
}

// CohortRiskScore kohort düzeyinde 0-100 arası bir risk puanı üretir:
// score = clamp(0, 100, (100-tahsilatOranı)*0.6 + (gecikmişTaksit/max(1,ödemeYapanÖğrenci))*40)
func CohortRiskScore(collectionRate float64, overdueInstallments, paidStudents int) float64 {
	denom := paidStudents
	if denom < 1 {
		denom = 1
	}
	score := (100-collectionRate)*0.6 + float64(overdueInstallments)/float64(denom)*40
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
