package dto

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

// RoleProfileData carries the optional profile fields applied when a role
// change creates a doctor or patient profile. Omitted fields default empty.
type RoleProfileData struct {
	Specialization  string `json:"specialization" validate:"omitempty,max=100"`
	Biography       string `json:"biography" validate:"omitempty,max=2000"`
	ConsultationFee string `json:"consultation_fee" validate:"omitempty,numeric"`
	DateOfBirth     string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Address         string `json:"address" validate:"omitempty,max=500"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=20"`
}

type ChangeRoleRequest struct {
	Role        string           `json:"role" validate:"required,oneof=admin doctor patient"`
	ProfileData *RoleProfileData `json:"profileData" validate:"omitempty"`
}

// ConsistencyIssue is one finding of the offline role/profile diagnostic.
type ConsistencyIssue struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Problem string `json:"problem"`
}

type DiagnosticsResponse struct {
	Issues     []ConsistencyIssue `json:"issues"`
	UsersTotal int                `json:"users_total"`
	Consistent bool               `json:"consistent"`
}
