package models

import "gorm.io/gorm"

// Kullanıcı rolleri. Admin her izni kapsar.
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleManager    = "manager"
)

// User panel kullanıcısını temsil eder (muhasebe ve kayıt personeli).
type User struct {
	gorm.Model
	Login        string `json:"login" gorm:"unique;not null"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"size:20;not null;default:'manager'"`
	IsActive     *bool  `json:"isActive" gorm:"default:true"`
}

func (User) TableName() string { return "users" }
