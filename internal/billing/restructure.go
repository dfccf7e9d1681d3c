// internal/billing/restructure.go
package billing

import (
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// RestructurePlan bir yeniden yapılandırmanın hesaplanmış sonucudur.
// Plan saf olarak üretilir; veritabanına uygulanması Service.Restructure
// içindeki tek transaction'da yapılır.
type RestructurePlan struct {
	Outstanding int64                        `json:"outstanding"`
	Archived    []models.ArchivedInstallment `json:"archived"`
	Active      []models.Installment         `json:"active"`
}

// PlanRestructure aktif taksit listesinden yeni planı hesaplar:
//
//  1. outstanding = Σ(aktif.tutar) − Σ(aktif.tahsilat)
//  2. tahsilatı olan her aktif satır, tahsil edilen tutarı aynen korunarak
//     arşive kopyalanır (arşivleme tek yönlüdür)
//  3. kalan bakiye eşit bölüşüm modunda yeni taksitlere dağıtılır
//
// Para yaratılmaz ve yok edilmez: Σ(arşiv.tahsilat) + Σ(yeni.tutar) her
// zaman yapılandırma öncesi Σ(aktif.tutar)'a eşittir.
func PlanRestructure(active []models.Installment, newCount int, startDate, now time.Time) (RestructurePlan, error) {
	var plan RestructurePlan

	var outstanding int64
	for _, inst := range active {
		outstanding += inst.Amount - inst.PaidAmount
		if inst.PaidAmount > 0 {
			plan.Archived = append(plan.Archived, models.ArchivedInstallment{
				StudentID:  inst.StudentID,
				No:         inst.No,
				Amount:     inst.Amount,
				DueDate:    inst.DueDate,
				PaidAmount: inst.PaidAmount,
				Status:     inst.Status,
				PaidAt:     inst.PaidAt,
				Method:     inst.Method,
				ArchivedAt: now,
			})
		}
	}
	plan.Outstanding = outstanding

	rows, err := BuildEvenSchedule(ScheduleParams{
		NetFee:           outstanding,
		InstallmentCount: newCount,
		FirstDueDate:     startDate,
	})
	if err != nil {
		return RestructurePlan{}, err
	}
	plan.Active = rows
	return plan, nil
}
