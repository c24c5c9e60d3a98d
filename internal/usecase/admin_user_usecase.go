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

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
	ErrRoleNotFound = errors.New("role not found")
)

type AdminUserUsecase interface {
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
	ChangeRole(ctx context.Context, userID uint, req *dto.ChangeRoleRequest, actorID *uint) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, userID uint, actorID *uint) error
}

type adminUserUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	roleRepo           repository.RoleRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
	scheduleRepo       repository.DoctorScheduleRepository
	auditService       service.AuditService
}

func NewAdminUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	auditService service.AuditService,
) AdminUserUsecase {
	return &adminUserUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		roleRepo:           roleRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
		scheduleRepo:       scheduleRepo,
		auditService:       auditService,
	}
}

func (u *adminUserUsecase) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAllWithProfiles(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

// ChangeRole moves a user between admin/doctor/patient in one transaction.
// Leaving the doctor or patient role deletes the matching profile; entering
// one creates it from the supplied profile data, defaulting empty fields.
// This is the only write path that actively maintains the role/profile
// agreement invariant.
func (u *adminUserUsecase) ChangeRole(ctx context.Context, userID uint, req *dto.ChangeRoleRequest, actorID *uint) (*dto.UserResponse, error) {
	newRoleID := entity.RoleIDForName(req.Role)
	if newRoleID == 0 {
		return nil, ErrInvalidRole
	}

	user, err := u.userRepo.FindByIDWithProfiles(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %d: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	role, err := u.roleRepo.FindByName(u.db.WithContext(ctx), req.Role)
	if err != nil {
		u.log.Warnf("Failed to find role %q: %+v", req.Role, err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	oldRoleID := user.RoleID

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if oldRoleID == entity.RoleIDDoctor && newRoleID != entity.RoleIDDoctor && user.DoctorProfile != nil {
		if err := u.doctorProfileRepo.Delete(tx, userID); err != nil {
			u.log.Warnf("Failed to delete doctor profile for user %d: %+v", userID, err)
			return nil, err
		}
		if err := u.scheduleRepo.DeleteByDoctorID(tx, userID); err != nil {
			u.log.Warnf("Failed to delete schedule entries for user %d: %+v", userID, err)
			return nil, err
		}
	}
	if oldRoleID == entity.RoleIDPatient && newRoleID != entity.RoleIDPatient && user.PatientProfile != nil {
		if err := u.patientProfileRepo.Delete(tx, userID); err != nil {
			u.log.Warnf("Failed to delete patient profile for user %d: %+v", userID, err)
			return nil, err
		}
	}

	if newRoleID == entity.RoleIDDoctor && user.DoctorProfile == nil {
		profile := doctorProfileFromData(userID, req.ProfileData)
		if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
			u.log.Warnf("Failed to create doctor profile for user %d: %+v", userID, err)
			return nil, err
		}
	}
	if newRoleID == entity.RoleIDPatient && user.PatientProfile == nil {
		profile := patientProfileFromData(userID, req.ProfileData)
		if err := u.patientProfileRepo.Create(tx, profile); err != nil {
			u.log.Warnf("Failed to create patient profile for user %d: %+v", userID, err)
			return nil, err
		}
	}

	user.RoleID = role.ID
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update role for user %d: %+v", userID, err)
		return nil, err
	}

	_ = u.auditService.Log(tx, actorID, entity.AuditActionUserRoleChange, entity.JSON{
		"user_id":  userID,
		"old_role": entity.RoleNameForID(oldRoleID),
		"new_role": req.Role,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit role change for user %d: %+v", userID, err)
		return nil, err
	}

	updated, err := u.userRepo.FindByIDWithProfiles(u.db.WithContext(ctx), userID)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload user %d after role change: %+v", userID, err)
		return converter.UserToResponse(user), nil
	}

	u.log.Infof("Role changed: user=%d, %s -> %s", userID, entity.RoleNameForID(oldRoleID), req.Role)
	return converter.UserToResponse(updated), nil
}

func (u *adminUserUsecase) DeleteUser(ctx context.Context, userID uint, actorID *uint) error {
	user, err := u.userRepo.FindByIDWithProfiles(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %d: %+v", userID, err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.DeleteByParticipant(tx, userID); err != nil {
		u.log.Warnf("Failed to delete appointments for user %d: %+v", userID, err)
		return err
	}
	if user.DoctorProfile != nil {
		if err := u.doctorProfileRepo.Delete(tx, userID); err != nil {
			return err
		}
		if err := u.scheduleRepo.DeleteByDoctorID(tx, userID); err != nil {
			return err
		}
	}
	if user.PatientProfile != nil {
		if err := u.patientProfileRepo.Delete(tx, userID); err != nil {
			return err
		}
	}
	if err := u.userRepo.Delete(tx, userID); err != nil {
		u.log.Warnf("Failed to delete user %d: %+v", userID, err)
		return err
	}

	_ = u.auditService.Log(tx, actorID, entity.AuditActionUserDelete, entity.JSON{
		"user_id": userID,
		"email":   user.Email,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit user deletion %d: %+v", userID, err)
		return err
	}

	u.log.Infof("User deleted: id=%d", userID)
	return nil
}

func doctorProfileFromData(userID uint, data *dto.RoleProfileData) *entity.DoctorProfile {
	profile := &entity.DoctorProfile{UserID: userID}
	if data == nil {
		return profile
	}
	profile.Specialization = data.Specialization
	profile.Biography = data.Biography
	if data.ConsultationFee != "" {
		if fee, err := decimal.NewFromString(data.ConsultationFee); err == nil {
			profile.ConsultationFee = fee
		}
	}
	return profile
}

func patientProfileFromData(userID uint, data *dto.RoleProfileData) *entity.PatientProfile {
	profile := &entity.PatientProfile{UserID: userID}
	if data == nil {
		return profile
	}
	profile.Address = data.Address
	profile.PhoneNumber = data.PhoneNumber
	if data.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", data.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		}
	}
	return profile
}
