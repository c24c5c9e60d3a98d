package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed date", func(t *testing.T) {
		db := newTestDB(t)
		uc := newAvailabilityForTest(db)

		_, err := uc.GetAvailability(ctx, 1, "24-04-2025")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("rejects unknown doctor", func(t *testing.T) {
		db := newTestDB(t)
		uc := newAvailabilityForTest(db)

		_, err := uc.GetAvailability(ctx, 999, "2025-04-24")
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("unconfigured day is fully unavailable", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		uc := newAvailabilityForTest(db)

		resp, err := uc.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)

		assert.Equal(t, "2025-04-24", resp.Date)
		assert.Len(t, resp.Slots, 11)
		assert.Len(t, resp.SlotsInfo, 11)
		assert.False(t, resp.HasAvailableSlots)
		assert.Equal(t, 0, resp.AvailableCount)
		for id, info := range resp.SlotsInfo {
			assert.Equal(t, dto.SlotStatusUnavailable, info.Status, id)
			assert.False(t, info.Configured, id)
		}
	})

	t.Run("configured entries overlay the defaults", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{
			"slot2": true,
			"slot3": false,
		})
		uc := newAvailabilityForTest(db)

		resp, err := uc.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)

		assert.True(t, resp.Slots["block2"])
		assert.False(t, resp.Slots["block3"])
		assert.Equal(t, 1, resp.AvailableCount)
		assert.True(t, resp.HasAvailableSlots)

		open := resp.SlotsInfo["block2"]
		assert.Equal(t, dto.SlotStatusAvailable, open.Status)
		assert.True(t, open.Configured)
		assert.Equal(t, "09:00 - 10:00", open.Label)

		closed := resp.SlotsInfo["block3"]
		assert.Equal(t, dto.SlotStatusUnavailable, closed.Status)
		assert.True(t, closed.Configured)

		untouched := resp.SlotsInfo["block1"]
		assert.Equal(t, dto.SlotStatusUnavailable, untouched.Status)
		assert.False(t, untouched.Configured)
	})

	t.Run("reservation wins over the configured flag", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		require.NoError(t, db.Create(&entity.Appointment{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			StartsAt:  time.Date(2025, 4, 24, 9, 0, 0, 0, time.UTC),
			Status:    entity.AppointmentStatusScheduled,
		}).Error)
		uc := newAvailabilityForTest(db)

		resp, err := uc.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)

		info := resp.SlotsInfo["block2"]
		assert.Equal(t, dto.SlotStatusReserved, info.Status)
		assert.Equal(t, patient.ID, info.PatientID)
		assert.Equal(t, "Greta Holm", info.PatientName)
		assert.False(t, resp.Slots["block2"])
		assert.Equal(t, 0, resp.AvailableCount)
	})

	t.Run("cancelled appointments do not reserve", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		require.NoError(t, db.Create(&entity.Appointment{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			StartsAt:  time.Date(2025, 4, 24, 9, 0, 0, 0, time.UTC),
			Status:    entity.AppointmentStatusCancelled,
		}).Error)
		uc := newAvailabilityForTest(db)

		resp, err := uc.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)

		assert.Equal(t, dto.SlotStatusAvailable, resp.SlotsInfo["block2"].Status)
		assert.True(t, resp.Slots["block2"])
	})

	t.Run("appointments on other days are ignored", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		require.NoError(t, db.Create(&entity.Appointment{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			StartsAt:  time.Date(2025, 4, 25, 9, 0, 0, 0, time.UTC),
			Status:    entity.AppointmentStatusScheduled,
		}).Error)
		uc := newAvailabilityForTest(db)

		resp, err := uc.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)

		for id, info := range resp.SlotsInfo {
			assert.NotEqual(t, dto.SlotStatusReserved, info.Status, id)
		}
	})

	t.Run("legacy slot ids in stored entries are normalized", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		// Stored under the legacy prefix, as left behind by older clients.
		require.NoError(t, db.Create(&entity.DoctorScheduleEntry{
			DoctorID:  doctor.ID,
			Date:      time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC),
			SlotID:    "hour4",
			Available: true,
		}).Error)
		uc := newAvailabilityForTest(db)

		resp, err := uc.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)

		assert.True(t, resp.Slots["block4"])
		assert.Equal(t, dto.SlotStatusAvailable, resp.SlotsInfo["block4"].Status)
	})
}
