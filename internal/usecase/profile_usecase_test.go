package usecase

import (
	"context"
	"testing"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDoctorProfileForTest(db *gorm.DB) DoctorProfileUsecase {
	return NewDoctorProfileUsecase(db, newTestLogger(), repository.NewDoctorProfileRepository())
}

func newPatientProfileForTest(db *gorm.DB) PatientProfileUsecase {
	return NewPatientProfileUsecase(db, newTestLogger(), repository.NewPatientProfileRepository())
}

func TestDoctorProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("directory lists active doctors only", func(t *testing.T) {
		db := newTestDB(t)
		seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		inactive := seedDoctor(t, db, "gone@clinic.test", "Dr. Lund")
		require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
		uc := newDoctorProfileForTest(db)

		resp, err := uc.ListDoctors(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		require.Len(t, resp.Doctors, 1)
		assert.Equal(t, "Dr. Vogel", resp.Doctors[0].FullName)
	})

	t.Run("updates only the supplied fields", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		uc := newDoctorProfileForTest(db)

		resp, err := uc.UpdateProfile(ctx, doctor.ID, &dto.UpdateDoctorProfileRequest{
			Biography:       "Thirty years in geriatric psychiatry.",
			ConsultationFee: "180.50",
		})
		require.NoError(t, err)

		assert.Equal(t, "Psychogeriatrics", resp.Specialization)
		assert.Equal(t, "Thirty years in geriatric psychiatry.", resp.Biography)
		assert.True(t, resp.ConsultationFee.Equal(decimal.RequireFromString("180.50")))
	})

	t.Run("rejects malformed fee", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		uc := newDoctorProfileForTest(db)

		_, err := uc.UpdateProfile(ctx, doctor.ID, &dto.UpdateDoctorProfileRequest{ConsultationFee: "a lot"})
		assert.Error(t, err)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		db := newTestDB(t)
		uc := newDoctorProfileForTest(db)

		_, err := uc.GetProfile(ctx, 999)
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})
}

func TestPatientProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the supplied fields", func(t *testing.T) {
		db := newTestDB(t)
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		uc := newPatientProfileForTest(db)

		resp, err := uc.UpdateProfile(ctx, patient.ID, &dto.UpdatePatientProfileRequest{
			DateOfBirth: "1948-11-02",
			Address:     "Lindenstr. 5",
		})
		require.NoError(t, err)

		assert.Equal(t, "1948-11-02", resp.DateOfBirth)
		assert.Equal(t, "Lindenstr. 5", resp.Address)
	})

	t.Run("rejects malformed date of birth", func(t *testing.T) {
		db := newTestDB(t)
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		uc := newPatientProfileForTest(db)

		_, err := uc.UpdateProfile(ctx, patient.ID, &dto.UpdatePatientProfileRequest{DateOfBirth: "02.11.1948"})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("unknown patient", func(t *testing.T) {
		db := newTestDB(t)
		uc := newPatientProfileForTest(db)

		_, err := uc.GetProfile(ctx, 999)
		assert.ErrorIs(t, err, ErrPatientProfileNotFound)
	})
}
