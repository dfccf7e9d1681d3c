package billing

import (
	"testing"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

func TestPlanRestructureConservesMoney(t *testing.T) {
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	active := []models.Installment{
		{StudentID: 7, No: 1, Amount: 30000, PaidAmount: 30000, Status: models.InstallmentPaid},
		{StudentID: 7, No: 2, Amount: 30000, PaidAmount: 12000, Status: models.InstallmentOverdue},
		{StudentID: 7, No: 3, Amount: 30000, Status: models.InstallmentPending},
		{StudentID: 7, No: 4, Amount: 30000, Status: models.InstallmentPending},
	}
	totalBefore := int64(120000)

	plan, err := PlanRestructure(active, 6, start, now)
	if err != nil {
		t.Fatalf("PlanRestructure() error = %v", err)
	}

	// outstanding = 120000 - 42000
	if plan.Outstanding != 78000 {
		t.Errorf("Outstanding = %d, want 78000", plan.Outstanding)
	}

	// Yalnız tahsilatı olan satırlar arşive gider, tahsilat aynen korunur.
	if len(plan.Archived) != 2 {
		t.Fatalf("archived %d rows, want 2", len(plan.Archived))
	}
	var archivedPaid int64
	for _, a := range plan.Archived {
		archivedPaid += a.PaidAmount
		if !a.ArchivedAt.Equal(now) {
			t.Errorf("archived row %d has ArchivedAt %v, want %v", a.No, a.ArchivedAt, now)
		}
	}
	if archivedPaid != 42000 {
		t.Errorf("archived paid sum = %d, want 42000", archivedPaid)
	}

	// Para yaratılmaz ve yok edilmez.
	var newSum int64
	for _, r := range plan.Active {
		newSum += r.Amount
	}
	if archivedPaid+newSum != totalBefore {
		t.Errorf("archivedPaid(%d) + newSum(%d) = %d, want %d",
			archivedPaid, newSum, archivedPaid+newSum, totalBefore)
	}

	// Yeni plan eşit bölüşüm: ceil(78000/6)=13000.
	if len(plan.Active) != 6 {
		t.Fatalf("new plan has %d rows, want 6", len(plan.Active))
	}
	for i, r := range plan.Active {
		if r.Amount != 13000 {
			t.Errorf("row %d = %d, want 13000", i, r.Amount)
		}
		if r.Status != models.InstallmentPending {
			t.Errorf("row %d status = %q, want pending", i, r.Status)
		}
		if !r.DueDate.Equal(start.AddDate(0, i, 0)) {
			t.Errorf("row %d due = %v, want %v", i, r.DueDate, start.AddDate(0, i, 0))
		}
	}
}

func TestPlanRestructureNoPaymentsArchivesNothing(t *testing.T) {
	now := time.Now()
	active := []models.Installment{
		{StudentID: 3, No: 1, Amount: 20000},
		{StudentID: 3, No: 2, Amount: 20000},
	}
	plan, err := PlanRestructure(active, 4, now, now)
	if err != nil {
		t.Fatalf("PlanRestructure() error = %v", err)
	}
	if len(plan.Archived) != 0 {
		t.Errorf("archived %d rows, want 0 (no collections)", len(plan.Archived))
	}
	if plan.Outstanding != 40000 {
		t.Errorf("Outstanding = %d, want 40000", plan.Outstanding)
	}
}

func TestPlanRestructureRejectsBadCount(t *testing.T) {
	active := []models.Installment{{StudentID: 3, No: 1, Amount: 20000}}
	if _, err := PlanRestructure(active, 0, time.Now(), time.Now()); err == nil {
		t.Fatal("expected error for installment count 0")
	}
}

// Defter toplamları yapılandırmadan önce ve sonra aynı anlık görüntüden
// katlandığında birebir aynıdır. Aktif satırları eski, arşivi yeni haliyle
// karıştıran bir okuma 162000 gibi şişkin bir toplam üretirdi; tutarlı
// görüntü bunu imkansız kılar (bkz. Service.LoadLedger / LoadAllLedgers).
func TestFoldAggregatesStableAcrossRestructure(t *testing.T) {
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	active := []models.Installment{
		{StudentID: 7, No: 1, Amount: 30000, PaidAmount: 30000, Status: models.InstallmentPaid},
		{StudentID: 7, No: 2, Amount: 30000, PaidAmount: 12000, Status: models.InstallmentOverdue},
		{StudentID: 7, No: 3, Amount: 30000, Status: models.InstallmentPending},
		{StudentID: 7, No: 4, Amount: 30000, Status: models.InstallmentPending},
	}

	before := FoldAggregates(active, nil)

	plan, err := PlanRestructure(active, 6, start, now)
	if err != nil {
		t.Fatalf("PlanRestructure() error = %v", err)
	}
	after := FoldAggregates(plan.Active, plan.Archived)

	if after.TotalAmount != before.TotalAmount {
		t.Errorf("TotalAmount %d -> %d, para yaratıldı/yok edildi", before.TotalAmount, after.TotalAmount)
	}
	if after.Collected != before.Collected {
		t.Errorf("Collected %d -> %d, tahsilat değişti", before.Collected, after.Collected)
	}
	if after.Balance != before.Balance {
		t.Errorf("Balance %d -> %d", before.Balance, after.Balance)
	}
	if before.TotalAmount != 120000 || before.Collected != 42000 {
		t.Errorf("fixture fold = %+v, want total 120000 collected 42000", before)
	}
}
