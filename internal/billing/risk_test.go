package billing

import (
	"testing"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// overdueInst bugünden days gün önce vadesi dolmuş, debt kadar borcu kalan
// bir taksit üretir.
func overdueInst(base time.Time, days int, debt int64) models.Installment {
	return models.Installment{
		Amount:  debt,
		DueDate: base.AddDate(0, 0, -days),
		Status:  models.InstallmentOverdue,
	}
}

func TestClassifyStudent(t *testing.T) {
	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	th := DefaultRiskThresholds()

	tests := []struct {
		name            string
		active          []models.Installment
		wantTier        string
		wantOverdueDays int
		wantDebt        int64
	}{
		{
			name:            "91 days overdue is critical regardless of debt",
			active:          []models.Installment{overdueInst(base, 91, 1)},
			wantTier:        RiskCritical,
			wantOverdueDays: 91,
			wantDebt:        1,
		},
		{
			name:            "debt over 50000 is critical with zero days margin",
			active:          []models.Installment{overdueInst(base, 1, 50001)},
			wantTier:        RiskCritical,
			wantOverdueDays: 1,
			wantDebt:        50001,
		},
		{
			name:            "45 days overdue is medium",
			active:          []models.Installment{overdueInst(base, 45, 100)},
			wantTier:        RiskMedium,
			wantOverdueDays: 45,
			wantDebt:        100,
		},
		{
			name:            "10 days and small debt is low",
			active:          []models.Installment{overdueInst(base, 10, 1000)},
			wantTier:        RiskLow,
			wantOverdueDays: 10,
			wantDebt:        1000,
		},
		{
			name:            "61 days is high",
			active:          []models.Installment{overdueInst(base, 61, 100)},
			wantTier:        RiskHigh,
			wantOverdueDays: 61,
			wantDebt:        100,
		},
		{
			name:     "no installments is low",
			active:   nil,
			wantTier: RiskLow,
		},
		{
			name: "paid rows are ignored",
			active: []models.Installment{
				{Amount: 60000, PaidAmount: 60000, DueDate: base.AddDate(0, 0, -120), Status: models.InstallmentPaid},
			},
			wantTier: RiskLow,
		},
		{
			name: "future installments do not count as debt",
			active: []models.Installment{
				{Amount: 60000, DueDate: base.AddDate(0, 1, 0), Status: models.InstallmentPending},
			},
			wantTier: RiskLow,
		},
		{
			name: "oldest unpaid due date drives overdue days",
			active: []models.Installment{
				overdueInst(base, 10, 1000),
				overdueInst(base, 95, 500),
			},
			wantTier:        RiskCritical,
			wantOverdueDays: 95,
			wantDebt:        1500,
		},
		{
			name: "partially paid overdue counts remaining only",
			active: []models.Installment{
				{Amount: 20000, PaidAmount: 4000, DueDate: base.AddDate(0, 0, -35), Status: models.InstallmentOverdue},
			},
			wantTier:        RiskMedium,
			wantOverdueDays: 35,
			wantDebt:        16000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStudent(tt.active, base, th)
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", got.Tier, tt.wantTier)
			}
			if got.OverdueDays != tt.wantOverdueDays {
				t.Errorf("OverdueDays = %d, want %d", got.OverdueDays, tt.wantOverdueDays)
			}
			if got.TotalDebt != tt.wantDebt {
				t.Errorf("TotalDebt = %d, want %d", got.TotalDebt, tt.wantDebt)
			}
		})
	}
}

// Eşikler yapılandırmadan gelir; farklı bir eşik seti farklı katman üretmeli.
func TestClassifyStudentCustomThresholds(t *testing.T) {
	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	th := RiskThresholds{
		CriticalDays: 10, HighDays: 5, MediumDays: 2,
		CriticalDebt: 500, HighDebt: 300, MediumDebt: 100,
	}
	got := ClassifyStudent([]models.Installment{overdueInst(base, 11, 50)}, base, th)
	if got.Tier != RiskCritical {
		t.Errorf("Tier = %q, want critical with tightened thresholds", got.Tier)
	}
}

func TestCohortRiskScore(t *testing.T) {
	tests := []struct {
		name                      string
		rate                      float64
		overdueCount, paidStudent int
		want                      float64
	}{
		{"perfect cohort", 100, 0, 10, 0},
		{"zero collection", 0, 0, 10, 60},
		{"clamped at 100", 0, 50, 1, 100},
		{"zero paid students uses denominator 1", 50, 1, 0, 70},
		{"typical", 80, 5, 10, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CohortRiskScore(tt.rate, tt.overdueCount, tt.paidStudent)
			if got != tt.want {
				t.Errorf("CohortRiskScore(%v, %d, %d) = %v, want %v",
					tt.rate, tt.overdueCount, tt.paidStudent, got, tt.want)
			}
		})
	}
}
