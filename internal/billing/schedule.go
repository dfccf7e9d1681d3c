// internal/billing/schedule.go
package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"
)

// Plan üretim modları.
const (
	ModeEven        = "even"         // eşit bölüşüm, kalan son taksitte
	ModeCustomFirst = "custom_first" // ilk taksit elle, kalan eşit
	ModeManual      = "manual"       // satırlar tamamen elle girilir
)

// ScheduleParams bir plan üretiminin tüm girdileridir.
type ScheduleParams struct {
	NetFee           int64     `json:"netFee"`
	DownPayment      int64     `json:"downPayment"`
	DownPaymentDate  time.Time `json:"downPaymentDate"`
	InstallmentCount int       `json:"installmentCount"`
	FirstDueDate     time.Time `json:"firstDueDate"`
	FirstAmount      int64     `json:"firstAmount"` // yalnız custom_first modunda
}

// BuildSchedule seçilen moda göre taksit listesi üretir. Manuel mod satır
// üretmez; satırlar AddManualRow/RemoveManualRow ile yönetilir.
func BuildSchedule(mode string, p ScheduleParams) ([]models.Installment, error) {
	switch mode {
	case ModeEven:
		return BuildEvenSchedule(p)
	case ModeCustomFirst:
		return BuildCustomFirstSchedule(p)
	default:
		return nil, fmt.Errorf("%w: unknown schedule mode %q", ErrInconsistentSchedule, mode)
	}
}

// BuildEvenSchedule net ücreti (peşinat düşüldükten sonra) eşit taksitlere
// böler. Taban tutar yukarı yuvarlanır (ceil), fark son taksit tarafından
// emilir; son taksit tabandan küçük kalabilir. Çok küçük kalan + çok büyük
// taksit sayısı kombinasyonunda son taksit negatife düşebilir; gözlenen
// davranışta kırpma yoktur ve burada da yapılmaz.
//
// Vade tarihleri: 1. taksit = FirstDueDate, i. taksit = FirstDueDate + (i-1)
// takvim ayı (time.AddDate normalizasyonu ile; ay sonu taşmaları stdlib
// kuralına göre bir sonraki aya kayar).
func BuildEvenSchedule(p ScheduleParams) ([]models.Installment, error) {
	if p.NetFee < 0 {
		return nil, fmt.Errorf("%w: negative net fee", ErrInvalidAmount)
	}
	if p.DownPayment < 0 {
		return nil, fmt.Errorf("%w: negative down payment", ErrInvalidAmount)
	}
	if p.InstallmentCount < 1 {
		return nil, fmt.Errorf("%w: installment count must be >= 1", ErrInvalidAmount)
	}

	remaining := p.NetFee - p.DownPayment
	count := int64(p.InstallmentCount)

	// base = ceil(remaining / count), tamsayı aritmetiğiyle.
	base := (remaining + count - 1) / count
	if remaining <= 0 {
		base = 0
	}

	rows := make([]models.Installment, 0, p.InstallmentCount+1)
	rows = appendDownPayment(rows, p)

	for i := 1; i <= p.InstallmentCount; i++ {
		amount := base
		if i == p.InstallmentCount {
			amount = remaining - base*(count-1) // son taksit kalanı emer
		}
		rows = append(rows, models.Installment{
			No:      i,
			Amount:  amount,
			DueDate: p.FirstDueDate.AddDate(0, i-1, 0),
			Status:  models.InstallmentPending,
		})
	}

	if err := VerifySchedule(rows, p.NetFee); err != nil {
		return nil, err
	}
	return rows, nil
}

// BuildCustomFirstSchedule ilk taksiti elle girilen tutarla sabitler,
// kalanı eşit böler. Eşit bölüşümün aksine burada taban aşağı yuvarlanır
// (floor) ve artık yine son taksite itilir. İki yuvarlama politikası bilinçli
// olarak ayrı tutulur, birleştirilmez.
func BuildCustomFirstSchedule(p ScheduleParams) ([]models.Installment, error) {
	if p.InstallmentCount < 2 {
		return nil, fmt.Errorf("%w: custom first mode needs at least 2 installments", ErrInvalidAmount)
	}
	remaining := p.NetFee - p.DownPayment
	if p.FirstAmount <= 0 || p.FirstAmount >= remaining {
		return nil, fmt.Errorf("%w: first amount must be in (0, %d)", ErrInvalidAmount, remaining)
	}

	rest := remaining - p.FirstAmount
	count := int64(p.InstallmentCount - 1)
	each := rest / count // floor
	last := each + (rest - each*count)

	rows := make([]models.Installment, 0, p.InstallmentCount+1)
	rows = appendDownPayment(rows, p)

	rows = append(rows, models.Installment{
		No:      1,
		Amount:  p.FirstAmount,
		DueDate: p.FirstDueDate,
		Status:  models.InstallmentPending,
	})
	for i := 2; i <= p.InstallmentCount; i++ {
		amount := each
		if i == p.InstallmentCount {
			amount = last
		}
		rows = append(rows, models.Installment{
			No:      i,
			Amount:  amount,
			DueDate: p.FirstDueDate.AddDate(0, i-1, 0),
			Status:  models.InstallmentPending,
		})
	}

	if err := VerifySchedule(rows, p.NetFee); err != nil {
		return nil, err
	}
	return rows, nil
}

// appendDownPayment peşinat varsa no=0 satırını ekler. Peşinat ay dizisine
// asla karıştırılmaz, kendi tarihini taşır.
func appendDownPayment(rows []models.Installment, p ScheduleParams) []models.Installment {
	if p.DownPayment <= 0 {
		return rows
	}
	date := p.DownPaymentDate
	if date.IsZero() {
		date = time.Now().Truncate(24 * time.Hour)
	}
	return append(rows, models.Installment{
		No:      models.DownPaymentNo,
		Amount:  p.DownPayment,
		DueDate: date,
		Status:  models.InstallmentPending,
	})
}

// VerifySchedule üretilen satırların (peşinat dahil) hedef net ücreti tam
// olarak karşıladığını doğrular. Bir birimlik yuvarlama toleransının
// ötesindeki sapma bir defekttir.
func VerifySchedule(rows []models.Installment, netFee int64) error {
	var sum int64
	for _, r := range rows {
		sum += r.Amount
	}
	diff := sum - netFee
	if diff < -1 || diff > 1 {
		return fmt.Errorf("%w: rows sum to %d, expected %d", ErrInconsistentSchedule, sum, netFee)
	}
	return nil
}

// --- Manuel mod -------------------------------------------------------------

// AddManualRow satırı taksit numarasına göre artan sırada yerleştirir.
// Motor elle girilen tutarları asla yeniden yazmaz.
func AddManualRow(rows []models.Installment, row models.Installment) []models.Installment {
	rows = append(rows, row)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].No < rows[j].No })
	return rows
}

// RemoveManualRow verilen numaradaki satırı çıkarır; yoksa liste aynen döner.
func RemoveManualRow(rows []models.Installment, no int) []models.Installment {
	out := rows[:0]
	for _, r := range rows {
		if r.No != no {
			out = append(out, r)
		}
	}
	return out
}

// ManualTotal yalnızca görüntüleme amaçlı çalışan toplamı döner.
func ManualTotal(rows []models.Installment) int64 {
	var sum int64
	for _, r := range rows {
		sum += r.Amount
	}
	return sum
}
