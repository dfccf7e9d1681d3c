package models

// Class represents the 'classes' table; sınıf düzeyinde kohort raporları
// bu tabloya göre gruplanır.
type Class struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GradeNumber int    `gorm:"not null" json:"grade_number"`
	Branch      string `gorm:"size:3;not null" json:"branch"`
	Language    string `gorm:"size:50" json:"language"`
	StudyType   string `gorm:"size:50" json:"study_type"`
}

func (Class) TableName() string { return "classes" }

// ClassInput kullanılır: sınıf oluşturma/güncelleme isteklerindeki JSON'u bağlamak için.
type ClassInput struct {
	GradeNumber int    `json:"grade_number" binding:"required,min=0,max=12"`
	Branch      string `json:"branch" binding:"required"`
	Language    string `json:"language"`
	StudyType   string `json:"study_type"`
}
