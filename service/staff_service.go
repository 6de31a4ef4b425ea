// file: service/staff_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"staff-api/model"
	"staff-api/repository"
	"time"
)

var (
	ErrStaffNotFound    = errors.New("staff not found")
	ErrDuplicateStaffID = errors.New("staff_id already exists")
	ErrStaffUnderage    = errors.New("staff must be at least 18 years old")
)

const staffCacheTTL = 10 * time.Minute

// StaffService handles staff business logic with a cache-aside strategy on
// single-entity reads. The cache client may be nil (unit tests); all cache
// paths degrade to the database.
type StaffService struct {
	repo  repository.IStaffRepository
	cache ICacheClient
	Clock func() time.Time
}

func NewStaffService(repo repository.IStaffRepository, cache ICacheClient) *StaffService {
	return &StaffService{
		repo:  repo,
		cache: cache,
		Clock: time.Now,
	}
}

// CreateStaff validates the business rules and stores a new staff member.
func (s *StaffService) CreateStaff(req model.CreateStaffRequest) (*model.Staff, error) {
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, fmt.Errorf("invalid dob: %w", err)
	}
	if !s.isAdult(dob) {
		return nil, ErrStaffUnderage
	}

	status := model.StaffStatus(req.Status)
	if status == "" {
		status = model.StaffStatusActive
	}

	staff := &model.Staff{
		StaffID: req.StaffID,
		Name:    req.Name,
		DOB:     dob,
		Salary:  req.Salary,
		Status:  status,
	}
	if err := s.repo.CreateStaff(staff); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateStaffID
		}
		return nil, err
	}
	return staff, nil
}

// GetStaff returns a staff member by business id, consulting the cache first.
func (s *StaffService) GetStaff(staffID string) (*model.Staff, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(context.Background(), staffCacheKey(staffID)).Result()
		if err == nil {
			staff := &model.Staff{}
			if err := json.Unmarshal([]byte(cached), staff); err == nil {
				return staff, nil
			}
		}
	}

	staff, err := s.repo.GetByStaffID(staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(staff); err == nil {
			s.cache.Set(context.Background(), staffCacheKey(staffID), data, staffCacheTTL)
		}
	}
	return staff, nil
}

// ListStaff returns a filtered, paginated staff page. Lists are not cached;
// the filter space is too wide for useful hit rates.
func (s *StaffService) ListStaff(filter model.StaffFilter) (*model.StaffList, error) {
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}
	if items == nil {
		items = []*model.Staff{}
	}

	return &model.StaffList{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateStaff applies a partial update and invalidates the cached entity.
func (s *StaffService) UpdateStaff(staffID string, req model.UpdateStaffRequest) (*model.Staff, error) {
	staff, err := s.repo.GetByStaffID(staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if req.StaffID != nil {
		staff.StaffID = *req.StaffID
	}
	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, fmt.Errorf("invalid dob: %w", err)
		}
		if !s.isAdult(dob) {
			return nil, ErrStaffUnderage
		}
		staff.DOB = dob
	}
	if req.Salary != nil {
		staff.Salary = *req.Salary
	}
	if req.Status != nil {
		staff.Status = model.StaffStatus(*req.Status)
	}

	if err := s.repo.UpdateStaff(staffID, staff); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateStaffID
		}
		return nil, err
	}

	// Invalidate both keys when the business id itself changed.
	s.invalidate(staffID)
	if staff.StaffID != staffID {
		s.invalidate(staff.StaffID)
	}
	return staff, nil
}

// DeleteStaff permanently removes a staff member and drops the cached entity.
func (s *StaffService) DeleteStaff(staffID string) error {
	if err := s.repo.DeleteStaff(staffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaffNotFound
		}
		return err
	}
	s.invalidate(staffID)
	return nil
}

func (s *StaffService) invalidate(staffID string) {
	if s.cache != nil {
		s.cache.Del(context.Background(), staffCacheKey(staffID))
	}
}

func (s *StaffService) isAdult(dob time.Time) bool {
	return !dob.After(s.Clock().AddDate(-18, 0, 0))
}

func staffCacheKey(staffID string) string {
	return fmt.Sprintf("staff:%s", staffID)
}
