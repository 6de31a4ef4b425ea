// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// Usernames are normalized to lowercase before validation; the 72 character
// password ceiling is a bcrypt limitation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest defines the payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally names the refresh token to retire alongside the
// blacklisted access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateStaffRequest defines the payload for creating a staff member.
// dob is an ISO date (YYYY-MM-DD); the 18+ rule is enforced in the service.
type CreateStaffRequest struct {
	StaffID string  `json:"staff_id" validate:"required,min=1,max=20"`
	Name    string  `json:"name" validate:"required,min=1,max=100,alpha_space"`
	DOB     string  `json:"dob" validate:"required,datetime=2006-01-02"`
	Salary  float64 `json:"salary" validate:"required,gte=0"`
	Status  string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateStaffRequest carries a partial update; only non-nil fields change.
type UpdateStaffRequest struct {
	StaffID *string  `json:"staff_id" validate:"omitempty,min=1,max=20"`
	Name    *string  `json:"name" validate:"omitempty,min=1,max=100,alpha_space"`
	DOB     *string  `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Salary  *float64 `json:"salary" validate:"omitempty,gte=0"`
	Status  *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}
