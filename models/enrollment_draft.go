package models

import (
	"time"

	"gorm.io/gorm"
)

// Kayıt sihirbazı taslak durumları.
const (
	DraftOpen      = "open"
	DraftCommitted = "committed"
)

// EnrollmentDraft çok adımlı kayıt sihirbazının ara durumunu tutar.
// Sihirbaz adımları yalnızca bu taslağı günceller; taksit tablosuna giden
// tek yol taslağın commit edilmesidir. Taslak UUID ile adreslenir ve
// adım verisi JSON olarak Payload kolonunda saklanır.
type EnrollmentDraft struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Status    string `gorm:"size:12;not null;default:'open'" json:"status"`
	Payload   string `gorm:"type:text;not null;default:'{}'" json:"-"`
	StudentID *uint  `json:"studentId,omitempty"` // commit sonrasında dolar
	CreatedBy uint   `json:"createdBy"`
}

func (EnrollmentDraft) TableName() string { return "enrollment_drafts" }
