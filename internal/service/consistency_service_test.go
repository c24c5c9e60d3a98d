package service

import (
	"context"
	"io"
	"testing"

	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
		&entity.AuditLog{},
	))

	return db
}

func newServiceTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func createUser(t *testing.T, db *gorm.DB, roleID int, email string) *entity.User {
	t.Helper()
	user := &entity.User{RoleID: roleID, Email: email, Password: "x", FullName: email, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCheckRoleProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent data yields no issues", func(t *testing.T) {
		db := newServiceTestDB(t)
		doctor := createUser(t, db, entity.RoleIDDoctor, "doc@clinic.test")
		require.NoError(t, db.Create(&entity.DoctorProfile{UserID: doctor.ID}).Error)
		patient := createUser(t, db, entity.RoleIDPatient, "pat@clinic.test")
		require.NoError(t, db.Create(&entity.PatientProfile{UserID: patient.ID}).Error)
		createUser(t, db, entity.RoleIDAdmin, "admin@clinic.test")

		svc := NewConsistencyService(db, newServiceTestLogger(), repository.NewUserRepository())

		report, err := svc.CheckRoleProfiles(ctx)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Empty(t, report.Issues)
		assert.Equal(t, 3, report.UsersTotal)
	})

	t.Run("flags every role/profile disagreement", func(t *testing.T) {
		db := newServiceTestDB(t)

		// Doctor without a doctor profile.
		createUser(t, db, entity.RoleIDDoctor, "bare-doc@clinic.test")
		// Patient carrying a doctor profile.
		patient := createUser(t, db, entity.RoleIDPatient, "odd-pat@clinic.test")
		require.NoError(t, db.Create(&entity.PatientProfile{UserID: patient.ID}).Error)
		require.NoError(t, db.Create(&entity.DoctorProfile{UserID: patient.ID}).Error)
		// Admin with a leftover patient profile.
		admin := createUser(t, db, entity.RoleIDAdmin, "admin@clinic.test")
		require.NoError(t, db.Create(&entity.PatientProfile{UserID: admin.ID}).Error)
		// Unknown role id.
		createUser(t, db, 42, "lost@clinic.test")

		svc := NewConsistencyService(db, newServiceTestLogger(), repository.NewUserRepository())

		report, err := svc.CheckRoleProfiles(ctx)
		require.NoError(t, err)
		assert.False(t, report.Consistent)
		assert.Len(t, report.Issues, 4)

		problems := make([]string, 0, len(report.Issues))
		for _, issue := range report.Issues {
			problems = append(problems, issue.Problem)
		}
		assert.Contains(t, problems, "doctor role without doctor profile")
		assert.Contains(t, problems, "patient role with doctor profile attached")
		assert.Contains(t, problems, "admin role with patient profile attached")
		assert.Contains(t, problems, "unknown role id")
	})
}
