package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking-api/internal/converter"
	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPatientProfileNotFound = errors.New("patient profile not found")

type PatientProfileUsecase interface {
	GetProfile(ctx context.Context, patientID uint) (*dto.PatientProfileResponse, error)
	UpdateProfile(ctx context.Context, patientID uint, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	patientProfileRepo repository.PatientProfileRepository
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientProfileRepo repository.PatientProfileRepository,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		patientProfileRepo: patientProfileRepo,
	}
}

func (u *patientProfileUsecase) GetProfile(ctx context.Context, patientID uint) (*dto.PatientProfileResponse, error) {
	profile, err := u.patientProfileRepo.FindByUserID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %d: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientProfileNotFound
	}

	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientProfileUsecase) UpdateProfile(ctx context.Context, patientID uint, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error) {
	db := u.db.WithContext(ctx)

	profile, err := u.patientProfileRepo.FindByUserID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %d: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientProfileNotFound
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		profile.DateOfBirth = &dob
	}
	if req.Address != "" {
		profile.Address = req.Address
	}
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}

	if err := u.patientProfileRepo.Update(db, profile); err != nil {
		u.log.Warnf("Failed to update patient profile %d: %+v", patientID, err)
		return nil, err
	}

	return converter.PatientProfileToResponse(profile), nil
}
