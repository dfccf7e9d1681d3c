package models

import "gorm.io/gorm"

// TuitionFee represents the gross cost of education for a specific grade.
type TuitionFee struct {
	gorm.Model
	Grade        int   `json:"grade" gorm:"unique;not null"` // The grade level (0-12)
	PreviousCost int64 `json:"previousCost"`                 // Cost for the previous school year
	CurrentCost  int64 `json:"currentCost"`                  // Current actual cost
}

func (TuitionFee) TableName() string { return "tuition_fees" }
