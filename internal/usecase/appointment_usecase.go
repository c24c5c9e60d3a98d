package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking-api/internal/converter"
	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/domain/repository"
	"clinic-booking-api/internal/service"
	"clinic-booking-api/pkg/slot"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrAppointmentConflict = errors.New("another appointment already occupies this slot")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.BookingResult, error)
	GetPatientAppointments(ctx context.Context, patientID uint) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uint) (*dto.AppointmentListResponse, error)
	Cancel(ctx context.Context, appointmentID uint, requesterID uint, isAdmin bool) error
	GetAll(ctx context.Context) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, appointmentID uint, status string) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, appointmentID uint, actorID *uint) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	availability    AvailabilityUsecase
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	availability AvailabilityUsecase,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		availability:    availability,
		auditService:    auditService,
	}
}

// Book validates the requested slot against the availability resolver and,
// if it holds, persists the appointment. Business-rule rejections come back
// in the result with Success=false and a reason; the error return carries
// only validation and infrastructure failures.
//
// The persisted timestamp is recomputed from the slot number (slot N starts
// at hour N+7, UTC): any finer-grained time in the request is discarded.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.BookingResult, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	slotID := req.SlotID
	if slotID == "" && req.Time != "" {
		t, err := time.Parse("15:04", req.Time)
		if err == nil {
			if derived, ok := slot.FromHour(t.Hour()); ok {
				slotID = derived
			}
		}
	}
	canonical := slot.Normalize(slotID)

	avail, err := u.availability.GetAvailability(ctx, req.DoctorID, req.Date)
	if err != nil {
		return nil, err
	}

	info, known := avail.SlotsInfo[slot.Denormalize(canonical)]
	hour, decodable := slot.Hour(canonical)
	if !known || !decodable {
		return reject(dto.BookingReasonSlotUnknown, "Unknown slot identifier"), nil
	}

	switch {
	case info.Status == dto.SlotStatusReserved:
		return reject(dto.BookingReasonSlotReserved, "Slot is already reserved"), nil
	case !info.Configured:
		return reject(dto.BookingReasonSlotNotConfigured, "Doctor has not opened this slot"), nil
	case info.Status != dto.SlotStatusAvailable:
		return reject(dto.BookingReasonSlotClosed, "Doctor has closed this slot"), nil
	}

	appointment := &entity.Appointment{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		StartsAt:  time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC),
		Status:    entity.AppointmentStatusScheduled,
		Notes:     req.Notes,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		// A concurrent booking that slipped past the availability check
		// lands on the (doctor_id, starts_at) unique index.
		if isDuplicateKeyError(err, "doctor_starts_at") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return reject(dto.BookingReasonSlotReserved, "Slot is already reserved"), nil
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	_ = u.auditService.Log(tx, &req.PatientID, entity.AuditActionAppointmentCreate, entity.JSON{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"starts_at":      appointment.StartsAt,
		"slot_id":        canonical,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit booking transaction: %+v", err)
		return nil, err
	}

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %d: %+v", appointment.ID, err)
		full = appointment
	}

	u.log.Infof("Appointment booked: id=%d, doctor=%d, patient=%d, slot=%s",
		appointment.ID, req.DoctorID, req.PatientID, canonical)

	return &dto.BookingResult{
		Success:     true,
		Appointment: converter.AppointmentToResponse(full),
	}, nil
}

func reject(reason, message string) *dto.BookingResult {
	return &dto.BookingResult{
		Success: false,
		Reason:  reason,
		Message: message,
	}
}

func (u *appointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uint) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %d: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context, doctorID uint) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %d: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID uint, requesterID uint, isAdmin bool) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if !isAdmin && appointment.PatientID != requesterID {
		return ErrAppointmentNotOwned
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, entity.AppointmentStatusCancelled); err != nil {
		u.log.Warnf("Failed to cancel appointment %d: %+v", appointmentID, err)
		return err
	}

	_ = u.auditService.Log(tx, &requesterID, entity.AuditActionAppointmentCancel, entity.JSON{
		"appointment_id": appointmentID,
		"doctor_id":      appointment.DoctorID,
		"patient_id":     appointment.PatientID,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancellation: %+v", err)
		return err
	}

	u.log.Infof("Appointment cancelled: id=%d", appointmentID)
	return nil
}

func (u *appointmentUsecase) GetAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID uint, status string) (*dto.AppointmentResponse, error) {
	newStatus := entity.AppointmentStatus(status)
	switch newStatus {
	case entity.AppointmentStatusScheduled, entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	db := u.db.WithContext(ctx)

	affected, err := u.appointmentRepo.UpdateStatus(db, appointmentID, newStatus)
	if err != nil {
		// Reviving a cancelled appointment collides with the unique index
		// when the freed slot has been booked again in the meantime.
		if isDuplicateKeyError(err, "doctor_starts_at") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAppointmentConflict
		}
		u.log.Warnf("Failed to update appointment %d status: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Delete(ctx context.Context, appointmentID uint, actorID *uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.appointmentRepo.Delete(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %d: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	_ = u.auditService.Log(tx, actorID, entity.AuditActionAppointmentDelete, entity.JSON{
		"appointment_id": appointmentID,
	})

	return tx.Commit().Error
}
