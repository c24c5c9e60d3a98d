package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/repository"
	"clinic-booking-api/pkg/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staleAvailability reports every slot as open, standing in for a resolver
// snapshot taken before a competing booking landed. Insertion then has to
// rely on the unique index alone.
type staleAvailability struct{}

func (staleAvailability) GetAvailability(ctx context.Context, doctorID uint, date string) (*dto.AvailabilityResponse, error) {
	resp := &dto.AvailabilityResponse{
		Date:      date,
		Slots:     make(map[string]bool, slot.Count),
		SlotsInfo: make(map[string]dto.SlotInfo, slot.Count),
	}
	for _, id := range slot.All() {
		frontendID := slot.Denormalize(id)
		resp.Slots[frontendID] = true
		resp.SlotsInfo[frontendID] = dto.SlotInfo{
			Status:     dto.SlotStatusAvailable,
			Label:      slot.Label(id),
			Configured: true,
		}
	}
	resp.AvailableCount = slot.Count
	resp.HasAvailableSlots = true
	return resp, nil
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("books an open slot end to end", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})

		availability := newAvailabilityForTest(db)
		uc := newAppointmentForTest(db)

		before, err := availability.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)
		require.True(t, before.Slots["block2"])

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID:  doctor.ID,
			PatientID: patient.ID,
			Date:      "2025-04-24",
			SlotID:    "block2",
			Notes:     "first consultation",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.Appointment)

		assert.Equal(t, "scheduled", result.Appointment.Status)
		assert.Equal(t, "block2", result.Appointment.SlotID)
		assert.Equal(t, "09:00 - 10:00", result.Appointment.SlotLabel)
		assert.Equal(t, time.Date(2025, 4, 24, 9, 0, 0, 0, time.UTC), result.Appointment.StartsAt.UTC())
		assert.Equal(t, "Dr. Vogel", result.Appointment.DoctorName)
		assert.Equal(t, "Greta Holm", result.Appointment.PatientName)

		after, err := availability.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)
		assert.Equal(t, dto.SlotStatusReserved, after.SlotsInfo["block2"].Status)
		assert.False(t, after.Slots["block2"])
	})

	t.Run("second booking of the same slot is rejected as reserved", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		first := seedPatient(t, db, "one@clinic.test", "Greta Holm")
		second := seedPatient(t, db, "two@clinic.test", "Paul Brandt")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: first.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		result, err = uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: second.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, dto.BookingReasonSlotReserved, result.Reason)
	})

	t.Run("concurrent booking loses on the unique index", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		first := seedPatient(t, db, "one@clinic.test", "Greta Holm")
		second := seedPatient(t, db, "two@clinic.test", "Paul Brandt")

		// The competing appointment already exists, but the resolver
		// snapshot this booking works from predates it.
		require.NoError(t, db.Create(&entity.Appointment{
			DoctorID:  doctor.ID,
			PatientID: first.ID,
			StartsAt:  time.Date(2025, 4, 24, 9, 0, 0, 0, time.UTC),
			Status:    entity.AppointmentStatusScheduled,
		}).Error)

		uc := NewAppointmentUsecase(
			db,
			newTestLogger(),
			repository.NewAppointmentRepository(),
			repository.NewUserRepository(),
			staleAvailability{},
			newTestAuditService(),
		)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: second.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, dto.BookingReasonSlotReserved, result.Reason)
	})

	t.Run("cancelled slot can be booked again", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		first := seedPatient(t, db, "one@clinic.test", "Greta Holm")
		second := seedPatient(t, db, "two@clinic.test", "Paul Brandt")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: first.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		require.NoError(t, uc.Cancel(ctx, result.Appointment.ID, first.ID, false))

		// The cancelled row keeps its (doctor, starts_at) pair but no longer
		// blocks the slot.
		result, err = uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: second.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, "Paul Brandt", result.Appointment.PatientName)
	})

	t.Run("unknown slot identifier is rejected", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot99",
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, dto.BookingReasonSlotUnknown, result.Reason)
	})

	t.Run("unconfigured slot is rejected", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot5",
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, dto.BookingReasonSlotNotConfigured, result.Reason)
	})

	t.Run("slot closed by the doctor is rejected", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": false})
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, dto.BookingReasonSlotClosed, result.Reason)
	})

	t.Run("slot is derived from the time field when no slot id is sent", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", Time: "09:30",
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		// Minutes are discarded; the slot start is persisted.
		assert.Equal(t, time.Date(2025, 4, 24, 9, 0, 0, 0, time.UTC), result.Appointment.StartsAt.UTC())
	})

	t.Run("rejects malformed date and unknown patient", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		uc := newAppointmentForTest(db)

		_, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: patient.ID, Date: "24.04.2025", SlotID: "slot2",
		})
		assert.ErrorIs(t, err, ErrInvalidDate)

		_, err = uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: 999, Date: "2025-04-24", SlotID: "slot2",
		})
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (AppointmentUsecase, AvailabilityUsecase, *entity.User, *entity.User, uint) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		uc := newAppointmentForTest(db)

		result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		return uc, newAvailabilityForTest(db), doctor, patient, result.Appointment.ID
	}

	t.Run("patient cancels own appointment and frees the slot", func(t *testing.T) {
		uc, availability, doctor, patient, id := setup(t)

		require.NoError(t, uc.Cancel(ctx, id, patient.ID, false))

		resp, err := availability.GetAvailability(ctx, doctor.ID, "2025-04-24")
		require.NoError(t, err)
		assert.Equal(t, dto.SlotStatusAvailable, resp.SlotsInfo["block2"].Status)
	})

	t.Run("another patient cannot cancel", func(t *testing.T) {
		uc, _, _, patient, id := setup(t)

		err := uc.Cancel(ctx, id, patient.ID+100, false)
		assert.ErrorIs(t, err, ErrAppointmentNotOwned)
	})

	t.Run("admin can cancel any appointment", func(t *testing.T) {
		uc, _, _, _, id := setup(t)

		assert.NoError(t, uc.Cancel(ctx, id, 1, true))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		uc, _, _, patient, _ := setup(t)

		err := uc.Cancel(ctx, 999, patient.ID, false)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
	patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
	seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
	uc := newAppointmentForTest(db)

	result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
		DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot2",
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := uc.UpdateStatus(ctx, result.Appointment.ID, "postponed")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("rejects unknown appointment", func(t *testing.T) {
		_, err := uc.UpdateStatus(ctx, 999, "completed")
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("marks appointment completed", func(t *testing.T) {
		resp, err := uc.UpdateStatus(ctx, result.Appointment.ID, "completed")
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
	})

	t.Run("cannot revive a cancelled appointment onto a rebooked slot", func(t *testing.T) {
		db := newTestDB(t)
		doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
		first := seedPatient(t, db, "one@clinic.test", "Greta Holm")
		second := seedPatient(t, db, "two@clinic.test", "Paul Brandt")
		seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
		uc := newAppointmentForTest(db)

		booked, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: first.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		require.True(t, booked.Success)

		require.NoError(t, uc.Cancel(ctx, booked.Appointment.ID, first.ID, false))

		rebooked, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
			DoctorID: doctor.ID, PatientID: second.ID, Date: "2025-04-24", SlotID: "slot2",
		})
		require.NoError(t, err)
		require.True(t, rebooked.Success)

		_, err = uc.UpdateStatus(ctx, booked.Appointment.ID, "scheduled")
		assert.ErrorIs(t, err, ErrAppointmentConflict)
	})
}

func TestAppointmentListings(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
	other := seedDoctor(t, db, "doc2@clinic.test", "Dr. Lund")
	patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
	seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true, "slot3": true})
	seedSchedule(t, db, other.ID, "2025-04-24", map[string]bool{"slot2": true})
	uc := newAppointmentForTest(db)

	for _, req := range []*dto.CreateAppointmentRequest{
		{DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot2"},
		{DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot3"},
		{DoctorID: other.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot2"},
	} {
		result, err := uc.Book(ctx, req)
		require.NoError(t, err)
		require.True(t, result.Success)
	}

	t.Run("patient sees all own appointments", func(t *testing.T) {
		list, err := uc.GetPatientAppointments(ctx, patient.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, list.Total)
	})

	t.Run("doctor sees only own appointments", func(t *testing.T) {
		list, err := uc.GetDoctorAppointments(ctx, doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, list.Total)
		for _, a := range list.Appointments {
			assert.Equal(t, doctor.ID, a.DoctorID)
		}
	})

	t.Run("admin listing covers everything", func(t *testing.T) {
		list, err := uc.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, list.Total)
	})
}

func TestDeleteAppointment(t *testing.T) {
	ctx := context.Background()

	db := newTestDB(t)
	doctor := seedDoctor(t, db, "doc@clinic.test", "Dr. Vogel")
	patient := seedPatient(t, db, "pat@clinic.test", "Greta Holm")
	seedSchedule(t, db, doctor.ID, "2025-04-24", map[string]bool{"slot2": true})
	uc := newAppointmentForTest(db)

	result, err := uc.Book(ctx, &dto.CreateAppointmentRequest{
		DoctorID: doctor.ID, PatientID: patient.ID, Date: "2025-04-24", SlotID: "slot2",
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	admin := uint(1)
	require.NoError(t, uc.Delete(ctx, result.Appointment.ID, &admin))
	assert.ErrorIs(t, uc.Delete(ctx, result.Appointment.ID, &admin), ErrAppointmentNotFound)
}
