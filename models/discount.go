package models

import "gorm.io/gorm"

// Discount bir öğrenciye uygulanan indirimi tanımlar.
// Percent dolu ise indirim tutarı brüt ücretten türetilir; FixedAmount
// elle girilmişse yüzdeden türetilen tutarı ezer ve tek doğru kaynak odur.
type Discount struct {
	gorm.Model
	StudentID   uint     `json:"studentId" gorm:"not null;index"`
	Percent     *float64 `json:"percent,omitempty"`
	FixedAmount *int64   `json:"fixedAmount,omitempty"`
	Reason      string   `json:"reason"`
}

func (Discount) TableName() string { return "discounts" }
