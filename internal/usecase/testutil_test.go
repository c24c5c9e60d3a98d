package usecase

import (
	"io"
	"testing"
	"time"

	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/repository"
	"clinic-booking-api/internal/service"
	"clinic-booking-api/pkg/slot"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.PatientProfile{},
		&entity.Appointment{},
		&entity.DoctorScheduleEntry{},
		&entity.AuditLog{},
	))

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor},
		{ID: entity.RoleIDPatient, RoleName: entity.RolePatient},
	}
	require.NoError(t, db.Create(&roles).Error)

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAuditService() service.AuditService {
	return service.NewAuditService(newTestLogger(), repository.NewAuditLogRepository())
}

func seedDoctor(t *testing.T, db *gorm.DB, email, name string) *entity.User {
	t.Helper()

	user := &entity.User{
		RoleID:   entity.RoleIDDoctor,
		Email:    email,
		Password: "not-a-real-hash",
		FullName: name,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entity.DoctorProfile{
		UserID:         user.ID,
		Specialization: "Psychogeriatrics",
	}).Error)

	return user
}

func seedPatient(t *testing.T, db *gorm.DB, email, name string) *entity.User {
	t.Helper()

	user := &entity.User{
		RoleID:   entity.RoleIDPatient,
		Email:    email,
		Password: "not-a-real-hash",
		FullName: name,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entity.PatientProfile{UserID: user.ID}).Error)

	return user
}

// seedSchedule writes canonical schedule entries directly, bypassing the
// overwrite flow, so resolver tests control the stored state exactly.
func seedSchedule(t *testing.T, db *gorm.DB, doctorID uint, date string, slots map[string]bool) {
	t.Helper()

	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	for id, available := range slots {
		require.NoError(t, db.Create(&entity.DoctorScheduleEntry{
			DoctorID:  doctorID,
			Date:      day,
			SlotID:    slot.Normalize(id),
			Available: available,
		}).Error)
	}
}

func newAvailabilityForTest(db *gorm.DB) AvailabilityUsecase {
	return NewAvailabilityUsecase(
		db,
		newTestLogger(),
		repository.NewDoctorProfileRepository(),
		repository.NewDoctorScheduleRepository(),
		repository.NewAppointmentRepository(),
	)
}

func newAppointmentForTest(db *gorm.DB) AppointmentUsecase {
	return NewAppointmentUsecase(
		db,
		newTestLogger(),
		repository.NewAppointmentRepository(),
		repository.NewUserRepository(),
		newAvailabilityForTest(db),
		newTestAuditService(),
	)
}

func newScheduleForTest(db *gorm.DB) DoctorScheduleUsecase {
	return NewDoctorScheduleUsecase(
		db,
		newTestLogger(),
		repository.NewDoctorScheduleRepository(),
		repository.NewDoctorProfileRepository(),
		newTestAuditService(),
	)
}

func newAdminForTest(db *gorm.DB) AdminUserUsecase {
	return NewAdminUserUsecase(
		db,
		newTestLogger(),
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewDoctorProfileRepository(),
		repository.NewPatientProfileRepository(),
		repository.NewAppointmentRepository(),
		repository.NewDoctorScheduleRepository(),
		newTestAuditService(),
	)
}
