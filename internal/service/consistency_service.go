package service

import (
	"context"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConsistencyService is the offline diagnostic for the role/profile
// invariant: a user's role and the attached profile type must agree.
// The role-change path maintains this transactionally; every other write
// path trusts it, so drift is detected here rather than enforced there.
type ConsistencyService interface {
	CheckRoleProfiles(ctx context.Context) (*dto.DiagnosticsResponse, error)
}

type consistencyService struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
}

func NewConsistencyService(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository) ConsistencyService {
	return &consistencyService{
		db:       db,
		log:      log,
		userRepo: userRepo,
	}
}

func (s *consistencyService) CheckRoleProfiles(ctx context.Context) (*dto.DiagnosticsResponse, error) {
	users, err := s.userRepo.FindAllWithProfiles(s.db.WithContext(ctx))
	if err != nil {
		s.log.Warnf("Failed to load users for consistency check: %+v", err)
		return nil, err
	}

	issues := []dto.ConsistencyIssue{}
	for i := range users {
		user := &users[i]
		roleName := entity.RoleNameForID(user.RoleID)

		report := func(problem string) {
			issues = append(issues, dto.ConsistencyIssue{
				UserID:  user.ID,
				Email:   user.Email,
				Role:    roleName,
				Problem: problem,
			})
		}

		switch user.RoleID {
		case entity.RoleIDDoctor:
			if user.DoctorProfile == nil {
				report("doctor role without doctor profile")
			}
			if user.PatientProfile != nil {
				report("doctor role with patient profile attached")
			}
		case entity.RoleIDPatient:
			if user.PatientProfile == nil {
				report("patient role without patient profile")
			}
			if user.DoctorProfile != nil {
				report("patient role with doctor profile attached")
			}
		case entity.RoleIDAdmin:
			if user.DoctorProfile != nil {
				report("admin role with doctor profile attached")
			}
			if user.PatientProfile != nil {
				report("admin role with patient profile attached")
			}
		default:
			report("unknown role id")
		}
	}

	if len(issues) > 0 {
		s.log.Warnf("Role/profile consistency check found %d issue(s)", len(issues))
	}

	return &dto.DiagnosticsResponse{
		Issues:     issues,
		UsersTotal: len(users),
		Consistent: len(issues) == 0,
	}, nil
}
