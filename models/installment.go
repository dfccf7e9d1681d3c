package models

import (
	"time"

	"gorm.io/gorm"
)

// Taksit durumları. Bir taksit asla "overdue" durumundan sessizce
// "pending" durumuna geri dönmez.
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentOverdue = "overdue"
)

// DownPaymentNo is the installment number reserved for the up-front
// payment. Regular installments start at 1.
const DownPaymentNo = 0

// Installment bir öğrencinin ödeme planındaki tek bir tarihli taksiti
// temsil eder. Tutarlar tam TL (int64) olarak saklanır; kuruş kullanılmaz.
// No = 0 peşinatı, No >= 1 düzenli taksitleri gösterir.
type Installment struct {
	gorm.Model
	StudentID  uint       `json:"studentId" gorm:"not null;index;uniqueIndex:idx_installments_student_no"`
	No         int        `json:"no" gorm:"column:installment_no;not null;uniqueIndex:idx_installments_student_no"`
	Amount     int64      `json:"amount" gorm:"not null"`
	DueDate    time.Time  `json:"dueDate" gorm:"not null"`
	PaidAmount int64      `json:"paidAmount" gorm:"not null;default:0"`
	Status     string     `json:"status" gorm:"size:10;not null;default:'pending'"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	Method     string     `json:"method,omitempty" gorm:"size:30"`
}

func (Installment) TableName() string { return "installments" }

// Remaining returns how much is still owed on the installment. Never
// negative, even when the row was overpaid.
func (i Installment) Remaining() int64 {
	if r := i.Amount - i.PaidAmount; r > 0 {
		return r
	}
	return 0
}

// ArchivedInstallment, yeniden yapılandırma sırasında aktif plandan
// çıkarılan bir taksitin değişmez kopyasıdır. Tahsil edilen tutar denetim
// için aynen korunur. Arşivlenen bir satır bir daha aktifleştirilmez.
type ArchivedInstallment struct {
	gorm.Model
	StudentID  uint       `json:"studentId" gorm:"not null;index"`
	No         int        `json:"no" gorm:"column:installment_no;not null"`
	Amount     int64      `json:"amount" gorm:"not null"`
	DueDate    time.Time  `json:"dueDate" gorm:"not null"`
	PaidAmount int64      `json:"paidAmount" gorm:"not null;default:0"`
	Status     string     `json:"status" gorm:"size:10;not null"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	Method     string     `json:"method,omitempty" gorm:"size:30"`
	ArchivedAt time.Time  `json:"archivedAt" gorm:"not null"`
}

func (ArchivedInstallment) TableName() string { return "archived_installments" }
