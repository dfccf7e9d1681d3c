// internal/billing/errors.go
package billing

import "errors"

// Motorun hata taksonomisi. Handler katmanı bu sentinel'leri errors.Is ile
// HTTP cevaplarına çevirir.
var (
	// ErrInvalidAmount: sıfır veya negatif ödeme tutarı. Ücret girişleri
	// sıfıra kırpılır, ödeme girişleri ise reddedilir.
	ErrInvalidAmount = errors.New("billing: invalid amount")

	// ErrNotFound: taksit ya da öğrenci bulunamadı.
	ErrNotFound = errors.New("billing: record not found")

	// ErrInconsistentSchedule: üretilen taksitlerin toplamı hedef tutardan
	// bir birimden fazla sapıyor. Kurtarılabilir bir durum değil, kod
	// hatası göstergesidir.
	ErrInconsistentSchedule = errors.New("billing: inconsistent schedule")

	// ErrConcurrentModification: aynı öğrencinin defteri üzerinde yarışan
	// işlem. Çağıran tüm operasyonu baştan denemelidir; kısmi uygulama
	// asla yapılmaz.
	ErrConcurrentModification = errors.New("billing: concurrent modification")
)
