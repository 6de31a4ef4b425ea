package repository

import (
	"database/sql"
	"fmt"
	"staff-api/logger"
	"staff-api/model"
	"strings"

	"github.com/sirupsen/logrus"
)

// IStaffRepository defines the contract for staff database operations.
type IStaffRepository interface {
	CreateStaff(staff *model.Staff) error
	GetByStaffID(staffID string) (*model.Staff, error)
	List(filter model.StaffFilter) ([]*model.Staff, int, error)
	UpdateStaff(staffID string, staff *model.Staff) error
	DeleteStaff(staffID string) error
}

// StaffRepository implements IStaffRepository.
type StaffRepository struct {
	DB *sql.DB
}

func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

// CreateStaff adds a new staff record to the database.
func (r *StaffRepository) CreateStaff(staff *model.Staff) error {
	log := logger.Log.WithFields(logrus.Fields{
		"staff_id": staff.StaffID,
		"status":   staff.Status,
	})
	log.Info("Executing query to create a new staff member")

	query := `INSERT INTO staff (staff_id, name, dob, salary, status) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, staff.StaffID, staff.Name, staff.DOB, staff.Salary, staff.Status).
		Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		log.WithError(err).Error("Failed to execute create staff query")
		return err
	}
	return nil
}

// GetByStaffID retrieves a staff member by the business identifier.
func (r *StaffRepository) GetByStaffID(staffID string) (*model.Staff, error) {
	staff := &model.Staff{}
	query := `SELECT id, staff_id, name, dob, salary, status, created_at, updated_at FROM staff WHERE staff_id = $1`
	err := r.DB.QueryRow(query, staffID).Scan(
		&staff.ID, &staff.StaffID, &staff.Name, &staff.DOB,
		&staff.Salary, &staff.Status, &staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("staff_id", staffID).Error("Failed to execute get staff query")
		}
		return nil, err
	}
	return staff, nil
}

// List retrieves a filtered, sorted, paginated page of staff plus the total
// row count for the same filter.
func (r *StaffRepository) List(filter model.StaffFilter) ([]*model.Staff, int, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"page":  filter.Page,
		"limit": filter.Limit,
	})
	log.Info("Executing query to list staff")

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.SalaryMin != nil {
		args = append(args, *filter.SalaryMin)
		conditions = append(conditions, fmt.Sprintf("salary >= $%d", len(args)))
	}
	if filter.SalaryMax != nil {
		args = append(args, *filter.SalaryMax)
		conditions = append(conditions, fmt.Sprintf("salary <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(id) FROM staff`+where, args...).Scan(&total); err != nil {
		log.WithError(err).Error("Failed to execute staff count query")
		return nil, 0, err
	}

	// Sort column comes from the validated oneof whitelist, never raw input.
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(
		`SELECT id, staff_id, name, dob, salary, status, created_at, updated_at FROM staff%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, sortBy, order, len(args)-1, len(args),
	)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute staff list query")
		return nil, 0, err
	}
	defer rows.Close()

	var items []*model.Staff
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.StaffID, &s.Name, &s.DOB, &s.Salary, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			log.WithError(err).Error("Failed to scan staff row")
			return nil, 0, err
		}
		items = append(items, &s)
	}
	return items, total, rows.Err()
}

// UpdateStaff overwrites the row identified by staffID with the merged state.
// updated_at is refreshed by the table trigger.
func (r *StaffRepository) UpdateStaff(staffID string, staff *model.Staff) error {
	log := logger.Log.WithField("staff_id", staffID)
	log.Info("Executing query to update a staff member")

	query := `UPDATE staff SET staff_id = $1, name = $2, dob = $3, salary = $4, status = $5 WHERE staff_id = $6
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, staff.StaffID, staff.Name, staff.DOB, staff.Salary, staff.Status, staffID).
		Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		log.WithError(err).Error("Failed to execute update staff query")
		return err
	}
	return nil
}

// DeleteStaff permanently removes a staff record.
func (r *StaffRepository) DeleteStaff(staffID string) error {
	log := logger.Log.WithField("staff_id", staffID)
	log.Info("Executing query to delete a staff member")

	res, err := r.DB.Exec(`DELETE FROM staff WHERE staff_id = $1`, staffID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete staff query")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
