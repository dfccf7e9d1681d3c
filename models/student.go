package models

import (
	"time"

	"gorm.io/gorm"
)

// Student represents the student model in the database.
// TotalAmount/Collected/Balance alanları türetilmiş değerlerdir: her zaman
// aktif + arşivlenmiş taksitlerin toplamından yeniden hesaplanır, asla
// bağımsız olarak artırılmaz (bkz. billing.FoldAggregates).
type Student struct {
	gorm.Model
	ClassID *uint `json:"classId" gorm:"index"`

	IsStudying *bool      `json:"isStudying" gorm:"default:true"`
	LastName   string     `json:"lastName" gorm:"not null"`
	FirstName  string     `json:"firstName" gorm:"not null"`
	NationalID string     `json:"nationalId" gorm:"column:national_id;unique"`
	Gender     string     `json:"gender"`
	BirthDate  *time.Time `json:"birthDate"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`

	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
	HomeAddress string `json:"homeAddress"`
	Comments    string `json:"comments"`

	// --- LEDGER AGGREGATES (derived) ---
	TotalAmount int64 `json:"totalAmount" gorm:"not null;default:0"`
	Collected   int64 `json:"collected" gorm:"not null;default:0"`
	Balance     int64 `json:"balance" gorm:"not null;default:0"`

	// İyimser kilitleme için sürüm sayacı. Defter değiştiren her işlem
	// (ödeme, silme, yeniden yapılandırma) bu alanı sürüm kontrolüyle artırır.
	Version uint `json:"-" gorm:"not null;default:0"`

	// --- GORM RELATIONSHIPS ---
	Class        *Class                `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Installments []Installment         `gorm:"foreignKey:StudentID" json:"installments,omitempty"`
	Archived     []ArchivedInstallment `gorm:"foreignKey:StudentID" json:"archived,omitempty"`
	Discount     *Discount             `gorm:"foreignKey:StudentID" json:"discount,omitempty"`
}

func (Student) TableName() string { return "students" }

// FullName öğrencinin listelerde gösterilen tam adını döner.
func (s Student) FullName() string {
	return s.LastName + " " + s.FirstName
}
