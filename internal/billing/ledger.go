// internal/billing/ledger.go
package billing

import (
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// PaymentResult bir ödeme uygulamasının çağırana dönen özetidir.
type PaymentResult struct {
	InstallmentID uint  `json:"installmentId"`
	Remaining     int64 `json:"remaining"`
	FullyPaid     bool  `json:"isFullyPaid"`
}

// Aggregates öğrenci defterinin türetilmiş toplamlarıdır.
type Aggregates struct {
	TotalAmount int64
	Collected   int64
	Balance     int64
}

// DeriveStatus taksitin durumunu türetir: tutar tamamlandıysa paid; vadesi
// geçmiş ödenmemiş taksit overdue; aksi halde pending. Overdue bir taksit
// ödeme gelmeden pending'e geri döndürülmez (vade geçmişliği tarihten
// türetildiği için bu fonksiyon monotoniktir).
func DeriveStatus(inst models.Installment, today time.Time) string {
	if inst.PaidAmount >= inst.Amount {
		return models.InstallmentPaid
	}
	if inst.DueDate.Before(truncateDay(today)) {
		return models.InstallmentOverdue
	}
	return models.InstallmentPending
}

// ApplyToInstallment ödemeyi taksit satırına uygular (saf kısım).
// Tutar kasıtlı olarak kırpılmaz: fazla ödeme mümkündür ve olduğu gibi
// korunur (elle düzeltmeler için; ürün kararı netleşene dek davranış bu).
func ApplyToInstallment(inst *models.Installment, amount int64, method string, date time.Time) (PaymentResult, error) {
	if amount <= 0 {
		return PaymentResult{}, ErrInvalidAmount
	}

	inst.PaidAmount += amount
	inst.Status = DeriveStatus(*inst, date)
	if inst.Status == models.InstallmentPaid {
		paidAt := date
		inst.PaidAt = &paidAt
	}
	if method != "" {
		inst.Method = method
	}

	return PaymentResult{
		InstallmentID: inst.ID,
		Remaining:     inst.Remaining(),
		FullyPaid:     inst.Status == models.InstallmentPaid,
	}, nil
}

// FoldAggregates öğrenci toplamlarını aktif + arşiv satırlarından saf bir
// katlama ile türetir. Toplamlar asla bağımsız artırılmaz; sapma (drift)
// bu yüzden imkansızdır.
//
// Yeniden yapılandırma sonrası aktif satırlar yalnız kalan bakiyeyi
// kapsadığı için toplam borç = Σ(aktif.tutar) + Σ(arşiv.tahsilat) olarak
// hesaplanır; arşiv satırının planlanan tutarını saymak çifte sayım olurdu.
func FoldAggregates(active []models.Installment, archived []models.ArchivedInstallment) Aggregates {
	var agg Aggregates
	for _, inst := range active {
		agg.TotalAmount += inst.Amount
		agg.Collected += inst.PaidAmount
	}
	for _, arch := range archived {
		agg.TotalAmount += arch.PaidAmount
		agg.Collected += arch.PaidAmount
	}
	agg.Balance = agg.TotalAmount - agg.Collected
	return agg
}

// RefreshOverdue vadesi geçmiş ödenmemiş satırların durumunu günceller ve
// değişen satırları döner. paid durumundaki satırlara dokunulmaz.
func RefreshOverdue(active []models.Installment, today time.Time) []models.Installment {
	var changed []models.Installment
	for i := range active {
		if active[i].Status == models.InstallmentPaid {
			continue
		}
		if s := DeriveStatus(active[i], today); s != active[i].Status {
			active[i].Status = s
			changed = append(changed, active[i])
		}
	}
	return changed
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
