package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

var today = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		inst models.Installment
		want string
	}{
		{"unpaid future due", models.Installment{Amount: 10000, DueDate: today.AddDate(0, 1, 0)}, models.InstallmentPending},
		{"unpaid past due", models.Installment{Amount: 10000, DueDate: today.AddDate(0, -1, 0)}, models.InstallmentOverdue},
		{"unpaid due today", models.Installment{Amount: 10000, DueDate: truncateDay(today)}, models.InstallmentPending},
		{"fully paid past due", models.Installment{Amount: 10000, PaidAmount: 10000, DueDate: today.AddDate(0, -1, 0)}, models.InstallmentPaid},
		{"overpaid", models.Installment{Amount: 10000, PaidAmount: 12000, DueDate: today}, models.InstallmentPaid},
		{"partially paid past due", models.Installment{Amount: 10000, PaidAmount: 5000, DueDate: today.AddDate(0, -1, 0)}, models.InstallmentOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.inst, today); got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyToInstallmentFullPayment(t *testing.T) {
	inst := models.Installment{Amount: 10000, DueDate: today.AddDate(0, 1, 0)}
	res, err := ApplyToInstallment(&inst, 10000, "havale", today)
	if err != nil {
		t.Fatalf("ApplyToInstallment() error = %v", err)
	}
	if !res.FullyPaid || res.Remaining != 0 {
		t.Errorf("result = %+v, want fully paid with remaining 0", res)
	}
	if inst.Status != models.InstallmentPaid {
		t.Errorf("status = %q, want paid", inst.Status)
	}
	if inst.PaidAt == nil || !inst.PaidAt.Equal(today) {
		t.Errorf("paidAt = %v, want %v", inst.PaidAt, today)
	}
	if inst.Method != "havale" {
		t.Errorf("method = %q, want havale", inst.Method)
	}
}

func TestApplyToInstallmentPartialPayment(t *testing.T) {
	inst := models.Installment{Amount: 10000, DueDate: today.AddDate(0, 1, 0)}
	res, err := ApplyToInstallment(&inst, 4000, "nakit", today)
	if err != nil {
		t.Fatalf("ApplyToInstallment() error = %v", err)
	}
	if res.FullyPaid {
		t.Error("partial payment reported as fully paid")
	}
	if res.Remaining != 6000 {
		t.Errorf("remaining = %d, want 6000", res.Remaining)
	}
	if inst.Status != models.InstallmentPending {
		t.Errorf("status = %q, want pending", inst.Status)
	}
}

func TestApplyToInstallmentPartialOnOverdue(t *testing.T) {
	inst := models.Installment{Amount: 10000, DueDate: today.AddDate(0, -2, 0), Status: models.InstallmentOverdue}
	res, err := ApplyToInstallment(&inst, 4000, "nakit", today)
	if err != nil {
		t.Fatalf("ApplyToInstallment() error = %v", err)
	}
	if inst.Status != models.InstallmentOverdue {
		t.Errorf("status = %q, want overdue (partial payment keeps past-due row overdue)", inst.Status)
	}
	if res.Remaining != 6000 {
		t.Errorf("remaining = %d, want 6000", res.Remaining)
	}
}

func TestApplyToInstallmentRejectsNonPositive(t *testing.T) {
	for _, amount := range []int64{0, -100} {
		inst := models.Installment{Amount: 10000, DueDate: today}
		if _, err := ApplyToInstallment(&inst, amount, "", today); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount=%d: err = %v, want ErrInvalidAmount", amount, err)
		}
		if inst.PaidAmount != 0 {
			t.Errorf("amount=%d: rejected payment mutated the row", amount)
		}
	}
}

// Fazla ödeme kırpılmaz; kalan asla negatif raporlanmaz.
func TestApplyToInstallmentOverpayment(t *testing.T) {
	inst := models.Installment{Amount: 10000, PaidAmount: 8000, DueDate: today}
	res, err := ApplyToInstallment(&inst, 5000, "kart", today)
	if err != nil {
		t.Fatalf("ApplyToInstallment() error = %v", err)
	}
	if inst.PaidAmount != 13000 {
		t.Errorf("paidAmount = %d, want 13000 (no clamp)", inst.PaidAmount)
	}
	if res.Remaining != 0 || !res.FullyPaid {
		t.Errorf("result = %+v, want remaining 0, fully paid", res)
	}
}

func TestFoldAggregates(t *testing.T) {
	active := []models.Installment{
		{Amount: 30000, PaidAmount: 30000},
		{Amount: 30000, PaidAmount: 10000},
		{Amount: 40000},
	}
	archived := []models.ArchivedInstallment{
		{Amount: 25000, PaidAmount: 20000},
	}

	agg := FoldAggregates(active, archived)
	// Toplam borç = Σ(aktif.tutar) + Σ(arşiv.tahsilat): arşivin planlanan
	// tutarı sayılmaz, yeni plan zaten kalan bakiyeyi kapsıyor.
	if agg.TotalAmount != 120000 {
		t.Errorf("TotalAmount = %d, want 120000", agg.TotalAmount)
	}
	if agg.Collected != 60000 {
		t.Errorf("Collected = %d, want 60000", agg.Collected)
	}
	if agg.Balance != 60000 {
		t.Errorf("Balance = %d, want 60000", agg.Balance)
	}
}

func TestFoldAggregatesEmpty(t *testing.T) {
	agg := FoldAggregates(nil, nil)
	if agg.TotalAmount != 0 || agg.Collected != 0 || agg.Balance != 0 {
		t.Errorf("empty fold = %+v, want zeros", agg)
	}
}

func TestRefreshOverdue(t *testing.T) {
	active := []models.Installment{
		{Amount: 10000, DueDate: today.AddDate(0, -1, 0), Status: models.InstallmentPending},
		{Amount: 10000, DueDate: today.AddDate(0, 1, 0), Status: models.InstallmentPending},
		{Amount: 10000, PaidAmount: 10000, DueDate: today.AddDate(0, -1, 0), Status: models.InstallmentPaid},
	}
	changed := RefreshOverdue(active, today)
	if len(changed) != 1 {
		t.Fatalf("changed %d rows, want 1", len(changed))
	}
	if active[0].Status != models.InstallmentOverdue {
		t.Errorf("past-due row status = %q, want overdue", active[0].Status)
	}
	if active[1].Status != models.InstallmentPending {
		t.Errorf("future row status = %q, want pending", active[1].Status)
	}
	if active[2].Status != models.InstallmentPaid {
		t.Errorf("paid row status = %q, want untouched paid", active[2].Status)
	}
}

// paid durumuna ulaşmış bir satır vadesi geçmiş olsa bile değişim
// listesine asla girmez: tazeleme yalnız pending satırları overdue'ya
// taşıyabilir. Kalıcılaştıran taraf da aynı kuralı koşullu yazımla uygular
// (Service.ListInstallments, "status = pending" şartı); ödeme ile listeleme
// yarıştığında paid ezilmez.
func TestRefreshOverdueNeverRevertsPaid(t *testing.T) {
	active := []models.Installment{
		{Model: gormModel(1), Amount: 10000, PaidAmount: 10000, DueDate: today.AddDate(0, -3, 0), Status: models.InstallmentPaid},
		{Model: gormModel(2), Amount: 10000, PaidAmount: 10000, DueDate: today.AddDate(-1, 0, 0), Status: models.InstallmentPaid},
	}
	if changed := RefreshOverdue(active, today); len(changed) != 0 {
		t.Fatalf("changed %d rows, want 0: paid satır overdue'ya dönemez", len(changed))
	}
	for i, inst := range active {
		if inst.Status != models.InstallmentPaid {
			t.Errorf("row %d status = %q, want paid", i, inst.Status)
		}
	}
}
