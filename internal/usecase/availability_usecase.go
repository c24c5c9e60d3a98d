package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/repository"
	"clinic-booking-api/pkg/slot"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, doctorID uint, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	scheduleRepo      repository.DoctorScheduleRepository
	appointmentRepo   repository.AppointmentRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		scheduleRepo:      scheduleRepo,
		appointmentRepo:   appointmentRepo,
	}
}

// slotState tracks one block while the day is being resolved. Keys into the
// working map are canonical slot ids; translation to the frontend convention
// happens only when the response is assembled.
type slotState struct {
	status      string
	configured  bool
	patientID   uint
	patientName string
}

// GetAvailability resolves the per-slot state of one doctor's day:
// every block starts unavailable, doctor-configured entries are overlaid,
// then existing appointments are overlaid last so a reservation always wins
// over the configured flag.
func (u *availabilityUsecase) GetAvailability(ctx context.Context, doctorID uint, date string) (*dto.AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	states := make(map[string]*slotState, slot.Count)
	for _, id := range slot.All() {
		states[id] = &slotState{status: dto.SlotStatusUnavailable}
	}

	entries, err := u.scheduleRepo.FindByDoctorAndDate(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load schedule entries for doctor %d on %s: %+v", doctorID, date, err)
		return nil, err
	}
	for _, entry := range entries {
		state, ok := states[slot.Normalize(entry.SlotID)]
		if !ok {
			u.log.Warnf("Schedule entry %d references unknown slot %q, skipping", entry.ID, entry.SlotID)
			continue
		}
		state.configured = true
		if entry.Available {
			state.status = dto.SlotStatusAvailable
		} else {
			state.status = dto.SlotStatusUnavailable
		}
	}

	appointments, err := u.appointmentRepo.FindActiveByDoctorAndDate(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load appointments for doctor %d on %s: %+v", doctorID, date, err)
		return nil, err
	}
	for _, appointment := range appointments {
		id, ok := slot.FromHour(appointment.StartsAt.UTC().Hour())
		if !ok {
			u.log.Warnf("Appointment %d starts outside the bookable day at %s, skipping", appointment.ID, appointment.StartsAt)
			continue
		}
		// Reserved always wins, even when a doctor has since reopened or
		// closed the slot. Duplicates should not exist; the last one
		// processed keeps the reservation metadata.
		state := states[id]
		state.status = dto.SlotStatusReserved
		state.patientID = appointment.PatientID
		state.patientName = appointment.Patient.FullName
	}

	resp := &dto.AvailabilityResponse{
		Date:      day.Format("2006-01-02"),
		Slots:     make(map[string]bool, slot.Count),
		SlotsInfo: make(map[string]dto.SlotInfo, slot.Count),
	}
	for _, id := range slot.All() {
		state := states[id]
		frontendID := slot.Denormalize(id)

		resp.Slots[frontendID] = state.status == dto.SlotStatusAvailable
		resp.SlotsInfo[frontendID] = dto.SlotInfo{
			Status:      state.status,
			Label:       slot.Label(id),
			Configured:  state.configured,
			PatientID:   state.patientID,
			PatientName: state.patientName,
		}
		if state.status == dto.SlotStatusAvailable {
			resp.AvailableCount++
		}
	}
	resp.HasAvailableSlots = resp.AvailableCount > 0

	return resp, nil
}
