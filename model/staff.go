package model

import "time"

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

// Staff is the managed business entity. staff_id is the editable business
// identifier; id stays internal.
type Staff struct {
	ID        int         `json:"id"`
	StaffID   string      `json:"staff_id"`
	Name      string      `json:"name"`
	DOB       time.Time   `json:"dob"`
	Salary    float64     `json:"salary"`
	Status    StaffStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StaffFilter carries the list query parameters after validation.
type StaffFilter struct {
	Status    string   `validate:"omitempty,oneof=active inactive"`
	Name      string   `validate:"omitempty,max=100"`
	SalaryMin *float64 `validate:"omitempty,gte=0"`
	SalaryMax *float64 `validate:"omitempty,gte=0"`
	SortBy    string   `validate:"omitempty,oneof=staff_id name salary created_at status"`
	SortOrder string   `validate:"omitempty,oneof=asc desc"`
	Page      int      `validate:"gte=1"`
	Limit     int      `validate:"gte=1,lte=100"`
}

// StaffList is the paginated list response.
type StaffList struct {
	Items      []*Staff `json:"items"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}
