package repository

import (
	"time"

	"clinic-booking-api/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	Create(db *gorm.DB, entry *entity.DoctorScheduleEntry) error
	FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.DoctorScheduleEntry, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.DoctorScheduleEntry, error)
	DeleteByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) (int64, error)
	DeleteByDoctorID(db *gorm.DB, doctorID uint) error
}
