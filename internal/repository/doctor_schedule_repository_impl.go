package repository

import (
	"time"

	"clinic-booking-api/internal/domain/entity"
	domainRepo "clinic-booking-api/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorScheduleRepository struct{}

func NewDoctorScheduleRepository() domainRepo.DoctorScheduleRepository {
	return &doctorScheduleRepository{}
}

func (r *doctorScheduleRepository) Create(db *gorm.DB, entry *entity.DoctorScheduleEntry) error {
	return db.Create(entry).Error
}

func (r *doctorScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.DoctorScheduleEntry, error) {
	var entries []entity.DoctorScheduleEntry
	err := db.Where("doctor_id = ?", doctorID).
		Order("date ASC, slot_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *doctorScheduleRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.DoctorScheduleEntry, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var entries []entity.DoctorScheduleEntry
	err := db.Where("doctor_id = ? AND date >= ? AND date < ?", doctorID, dayStart, dayEnd).
		Order("slot_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *doctorScheduleRepository) DeleteByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) (int64, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	result := db.Where("doctor_id = ? AND date >= ? AND date < ?", doctorID, dayStart, dayEnd).
		Delete(&entity.DoctorScheduleEntry{})
	return result.RowsAffected, result.Error
}

func (r *doctorScheduleRepository) DeleteByDoctorID(db *gorm.DB, doctorID uint) error {
	return db.Where("doctor_id = ?", doctorID).Delete(&entity.DoctorScheduleEntry{}).Error
}
