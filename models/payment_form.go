package models

import "gorm.io/gorm"

// PaymentForm adlandırılmış bir ödeme planı şablonudur.
// Taksit tutarları sabit sayı yerine formülle tanımlanır; formüller
// govaluate ile "NetUcret", "Pesinat" gibi parametreler üzerinden
// değerlendirilir (bkz. handlers.evaluateFormAmounts).
type PaymentForm struct {
	gorm.Model
	Name              string               `json:"name" gorm:"not null;unique"`
	InstallmentsCount int                  `json:"installments_count"`
	Installments      []PaymentInstallment `json:"installments" gorm:"foreignKey:PaymentFormID"`
}

// PaymentInstallment şablon içindeki tek bir taksit tanımıdır.
type PaymentInstallment struct {
	gorm.Model
	PaymentFormID uint   `json:"payment_form_id"`
	MonthOffset   int    `json:"month_offset"` // ilk vade tarihinden itibaren ay farkı
	Day           int    `json:"day"`
	Formula       string `json:"formula"`
}

// TableName GORM tablo adını belirler.
func (PaymentForm) TableName() string { return "payment_forms" }

func (PaymentInstallment) TableName() string { return "payment_installments" }
