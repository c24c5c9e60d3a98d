package usecase

import (
	"context"
	"time"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/domain/repository"
	"clinic-booking-api/internal/service"
	"clinic-booking-api/pkg/slot"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorScheduleUsecase interface {
	GetSchedule(ctx context.Context, doctorID uint) (dto.ScheduleMap, error)
	OverwriteSchedule(ctx context.Context, doctorID, actorID uint, req *dto.UpdateScheduleRequest) (*dto.UpdateScheduleResponse, error)
}

type doctorScheduleUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	scheduleRepo      repository.DoctorScheduleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:                db,
		log:               log,
		scheduleRepo:      scheduleRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

// GetSchedule returns every stored availability entry of the doctor, grouped
// by date, with slot keys translated to the frontend naming convention.
func (u *doctorScheduleUsecase) GetSchedule(ctx context.Context, doctorID uint) (dto.ScheduleMap, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	entries, err := u.scheduleRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load schedule for doctor %d: %+v", doctorID, err)
		return nil, err
	}

	schedule := dto.ScheduleMap{}
	for _, entry := range entries {
		date := entry.Date.UTC().Format("2006-01-02")
		if schedule[date] == nil {
			schedule[date] = map[string]bool{}
		}
		schedule[date][slot.Denormalize(entry.SlotID)] = entry.Available
	}

	return schedule, nil
}

// OverwriteSchedule replaces the doctor's availability for every date key in
// the payload: all entries for that doctor+date are deleted, then recreated
// from the payload. Dates not mentioned are untouched. Malformed dates and
// slot ids are skipped with a warning; partial success is the contract.
// actorID is the authenticated user performing the edit, which is the doctor
// themselves or an admin acting on their behalf.
func (u *doctorScheduleUsecase) OverwriteSchedule(ctx context.Context, doctorID, actorID uint, req *dto.UpdateScheduleRequest) (*dto.UpdateScheduleResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	summary := dto.ScheduleUpdateSummary{}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	for date, slots := range req.AvailableSlots {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			u.log.Warnf("Skipping invalid schedule date %q for doctor %d", date, doctorID)
			summary.DatesSkipped++
			continue
		}

		if _, err := u.scheduleRepo.DeleteByDoctorAndDate(tx, doctorID, day); err != nil {
			u.log.Warnf("Failed to clear schedule for doctor %d on %s: %+v", doctorID, date, err)
			return nil, err
		}

		for slotID, available := range slots {
			canonical := slot.Normalize(slotID)
			if _, ok := slot.Hour(canonical); !ok {
				u.log.Warnf("Skipping malformed slot id %q for doctor %d on %s", slotID, doctorID, date)
				summary.EntriesSkipped++
				continue
			}

			entry := &entity.DoctorScheduleEntry{
				DoctorID:  doctorID,
				Date:      day,
				SlotID:    canonical,
				Available: available,
			}
			if err := u.scheduleRepo.Create(tx, entry); err != nil {
				u.log.Warnf("Failed to create schedule entry for doctor %d on %s: %+v", doctorID, date, err)
				return nil, err
			}
			summary.EntriesWritten++
		}
		summary.DatesUpdated++
	}

	_ = u.auditService.Log(tx, &actorID, entity.AuditActionScheduleUpdate, entity.JSON{
		"doctor_id":       doctorID,
		"dates_updated":   summary.DatesUpdated,
		"entries_written": summary.EntriesWritten,
		"entries_skipped": summary.EntriesSkipped,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit schedule update for doctor %d: %+v", doctorID, err)
		return nil, err
	}

	schedule, err := u.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Schedule updated: doctor=%d, dates=%d, entries=%d, skipped=%d",
		doctorID, summary.DatesUpdated, summary.EntriesWritten, summary.EntriesSkipped)

	return &dto.UpdateScheduleResponse{
		Schedule: schedule,
		Summary:  summary,
	}, nil
}
