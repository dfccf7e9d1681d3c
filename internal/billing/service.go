// internal/billing/service.go
package billing

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Erdalk05/akademihub-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service defter değiştiren operasyonları tek noktadan yürütür. Aynı
// öğrenciye ait tüm mutasyonlar (ödeme, silme, yeniden yapılandırma) tek
// transaction içinde FOR UPDATE satır kilidi + iyimser sürüm kontrolüyle
// serileştirilir; kayıp güncelleme bu iki katmanla engellenir.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ApplyPayment bir taksite ödeme uygular ve öğrenci toplamlarını aktif +
// arşiv satırları üzerinden yeniden katlar. amount <= 0 ErrInvalidAmount
// ile reddedilir. Fazla ödeme kırpılmaz (bkz. ApplyToInstallment).
func (s *Service) ApplyPayment(installmentID uint, amount int64, method string, date time.Time) (PaymentResult, error) {
	var result PaymentResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inst models.Installment
		if err := tx.First(&inst, installmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: installment %d", ErrNotFound, installmentID)
			}
			return err
		}

		student, err := lockStudent(tx, inst.StudentID)
		if err != nil {
			return err
		}

		res, err := ApplyToInstallment(&inst, amount, method, date)
		if err != nil {
			return err
		}
		if err := tx.Save(&inst).Error; err != nil {
			return err
		}

		if err := refoldStudent(tx, student); err != nil {
			return err
		}
		result = res
		return nil
	})

	return result, err
}

// DeleteInstallment satırı kalıcı olarak siler. Satırın tahsilatı varsa
// öğrenci toplamı aynı transaction içindeki yeniden katlamayla düşer;
// ayrı bir düzeltme adımı yoktur.
func (s *Service) DeleteInstallment(installmentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inst models.Installment
		if err := tx.First(&inst, installmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: installment %d", ErrNotFound, installmentID)
			}
			return err
		}

		student, err := lockStudent(tx, inst.StudentID)
		if err != nil {
			return err
		}

		// Taksitler sert silinir: (student_id, installment_no) benzersiz
		// indeksi yeniden kullanılabilir kalmalı, denetim izi arşivdedir.
		if err := tx.Unscoped().Delete(&inst).Error; err != nil {
			return err
		}

		return refoldStudent(tx, student)
	})
}

// Restructure öğrencinin kalan bakiyesini yeni bir eşit bölüşüm planına
// dağıtır. Arşivleme + aktif seti değiştirme tek transaction'dır: ikisi
// birden görünür olur ya da hiçbiri. Yarışan bir ödeme sürüm kontrolüne
// takılırsa ErrConcurrentModification döner ve eski plan olduğu gibi kalır.
func (s *Service) Restructure(studentID uint, newCount int, startDate time.Time) (RestructurePlan, error) {
	var plan RestructurePlan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		student, err := lockStudent(tx, studentID)
		if err != nil {
			return err
		}

		var active []models.Installment
		if err := tx.Where("student_id = ?", studentID).
			Order("installment_no ASC").Find(&active).Error; err != nil {
			return err
		}
		if len(active) == 0 {
			return fmt.Errorf("%w: student %d has no active schedule", ErrNotFound, studentID)
		}

		p, err := PlanRestructure(active, newCount, startDate, time.Now())
		if err != nil {
			return err
		}

		if len(p.Archived) > 0 {
			if err := tx.Create(&p.Archived).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("student_id = ?", studentID).
			Delete(&models.Installment{}).Error; err != nil {
			return err
		}
		for i := range p.Active {
			p.Active[i].StudentID = studentID
		}
		if err := createInstallments(tx, p.Active); err != nil {
			return err
		}

		if err := refoldStudent(tx, student); err != nil {
			return err
		}
		plan = p
		return nil
	})

	return plan, err
}

// CreateSchedule kayıt sırasında üretilen taksitleri toplu olarak yazar.
// (student_id, installment_no) üzerinde idempotenttir: yarıda kalan bir
// deneme tekrarlandığında satırlar çoğalmaz.
func (s *Service) CreateSchedule(studentID uint, rows []models.Installment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		student, err := lockStudent(tx, studentID)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].StudentID = studentID
		}
		if err := createInstallments(tx, rows); err != nil {
			return err
		}
		return refoldStudent(tx, student)
	})
}

// CommitEnrollment kayıt sihirbazının tek giriş noktasıdır: öğrenciyi,
// indirimini ve üretilmiş taksitleri tek transaction'da yazar, toplamları
// katlar. finalize aynı transaction içinde en son çalışır; çağıran tarafın
// commit'e bağlı kayıtları (ör. taslağın kapatılması) böylece öğrenciyle
// birlikte ya yazılır ya da birlikte geri alınır. finalize nil olabilir.
func (s *Service) CommitEnrollment(student *models.Student, discount *models.Discount, rows []models.Installment, finalize func(tx *gorm.DB) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		if discount != nil {
			discount.StudentID = student.ID
			if err := tx.Create(discount).Error; err != nil {
				return err
			}
		}
		for i := range rows {
			rows[i].StudentID = student.ID
		}
		if err := createInstallments(tx, rows); err != nil {
			return err
		}

		// Yeni oluşturulan öğrencide sürüm 0'dır; katlama aynı transaction
		// içinde ilk sürümü yazar.
		if err := refoldStudent(tx, *student); err != nil {
			return err
		}
		if finalize != nil {
			return finalize(tx)
		}
		return nil
	})
}

// ListInstallments öğrencinin aktif planını vade durumları tazelenmiş
// olarak döner. Durum tazeleme overdue yönünde monotoniktir.
func (s *Service) ListInstallments(studentID uint) ([]models.Installment, error) {
	var active []models.Installment
	if err := s.db.Where("student_id = ?", studentID).
		Order("installment_no ASC").Find(&active).Error; err != nil {
		return nil, err
	}

	if changed := RefreshOverdue(active, time.Now()); len(changed) > 0 {
		for _, inst := range changed {
			// Koşullu yazım: yalnızca hâlâ pending olan satır overdue'ya
			// geçer. Okuma ile yazma arasında tahsil edilen bir satırın
			// paid durumu ezilmez; durumlar tek yönlü ilerler.
			res := s.db.Model(&models.Installment{}).
				Where("id = ? AND status = ?", inst.ID, models.InstallmentPending).
				Update("status", inst.Status)
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected == 0 {
				// Yarışı kaybettik: dönen listeye satırın güncel halini koy.
				for i := range active {
					if active[i].ID == inst.ID {
						if err := s.db.First(&active[i], inst.ID).Error; err != nil {
							return nil, err
						}
						break
					}
				}
			}
		}
	}
	return active, nil
}

// snapshotTxOptions rapor/risk okumaları için tek tutarlı anlık görüntü
// garantiler. Read-committed altında her SELECT kendi anlık görüntüsünü
// alır; araya giren bir yeniden yapılandırma aktif satırları eski, arşivi
// yeni haliyle gösterip katlamada parayı çift sayardı.
var snapshotTxOptions = sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// LoadLedger rapor ve risk hesapları için tutarlı bir anlık görüntü okur.
// Üç okuma aynı repeatable-read transaction'ını paylaşır; yarıda kalmış
// ya da araya girmiş bir yapılandırmanın karışık hali görülmez.
func (s *Service) LoadLedger(studentID uint) (StudentLedger, error) {
	var ledger StudentLedger
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.Preload("Class").First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrNotFound, studentID)
			}
			return err
		}

		var active []models.Installment
		if err := tx.Where("student_id = ?", studentID).
			Order("installment_no ASC").Find(&active).Error; err != nil {
			return err
		}
		var archived []models.ArchivedInstallment
		if err := tx.Where("student_id = ?", studentID).Find(&archived).Error; err != nil {
			return err
		}

		ledger = StudentLedger{Student: student, Active: active, Archived: archived}
		return nil
	}, &snapshotTxOptions)
	return ledger, err
}

// LoadAllLedgers portföy raporları için tüm okuyan öğrencilerin
// defterlerini tek anlık görüntüden okur.
func (s *Service) LoadAllLedgers() ([]StudentLedger, error) {
	var ledgers []StudentLedger
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var students []models.Student
		if err := tx.
			Preload("Class").
			Preload("Installments").
			Preload("Archived").
			Where("is_studying = ?", true).
			Find(&students).Error; err != nil {
			return err
		}

		ledgers = make([]StudentLedger, 0, len(students))
		for _, st := range students {
			ledgers = append(ledgers, StudentLedger{
				Student:  st,
				Active:   st.Installments,
				Archived: st.Archived,
			})
		}
		return nil
	}, &snapshotTxOptions)
	return ledgers, err
}

// --- transaction yardımcıları ------------------------------------------------

// lockStudent öğrenci satırını FOR UPDATE ile kilitler; transaction bitene
// kadar aynı öğrenci üzerindeki diğer yazarlar bekler.
func lockStudent(tx *gorm.DB, studentID uint) (models.Student, error) {
	var student models.Student
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&student, studentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return student, fmt.Errorf("%w: student %d", ErrNotFound, studentID)
		}
		return student, err
	}
	return student, nil
}

// refoldStudent toplamları transaction içindeki güncel satırlardan yeniden
// katlar ve sürüm kontrollü tek UPDATE ile yazar. Sürüm tutmazsa araya
// başka bir yazar girmiştir: ErrConcurrentModification ile tüm transaction
// geri alınır.
func refoldStudent(tx *gorm.DB, student models.Student) error {
	var active []models.Installment
	if err := tx.Where("student_id = ?", student.ID).Find(&active).Error; err != nil {
		return err
	}
	var archived []models.ArchivedInstallment
	if err := tx.Where("student_id = ?", student.ID).Find(&archived).Error; err != nil {
		return err
	}

	agg := FoldAggregates(active, archived)
	res := tx.Model(&models.Student{}).
		Where("id = ? AND version = ?", student.ID, student.Version).
		Updates(map[string]interface{}{
			"total_amount": agg.TotalAmount,
			"collected":    agg.Collected,
			"balance":      agg.Balance,
			"version":      student.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: student %d version %d", ErrConcurrentModification, student.ID, student.Version)
	}
	return nil
}

// createInstallments toplu ekleme; (student_id, installment_no) çakışmasını
// sessizce atlayarak tekrar denemeleri idempotent yapar.
func createInstallments(tx *gorm.DB, rows []models.Installment) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "installment_no"}},
		DoNothing: true,
	}).Create(&rows).Error
}
