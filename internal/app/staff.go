package app

import (
	"fmt"
	"strings"

	"librarydesk/pkg/auth"
	"librarydesk/pkg/domain"
	"librarydesk/pkg/validate"
)

// StaffInput carries the caller-supplied fields for a new staff record. The
// password is hashed before storage; no plaintext credential is persisted.
type StaffInput struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	EmployeeID string           `json:"employeeId"`
	Role       domain.StaffRole `json:"role"`
	Department string           `json:"department"`
	Salary     float64          `json:"salary"`
	Password   string           `json:"password"`
}

// StaffUpdate carries optional field changes; nil means "leave unchanged".
type StaffUpdate struct {
	Name       *string           `json:"name"`
	Email      *string           `json:"email"`
	Phone      *string           `json:"phone"`
	Role       *domain.StaffRole `json:"role"`
	Department *string           `json:"department"`
	Salary     *float64          `json:"salary"`
	Password   *string           `json:"password"`
}

func validStaffRole(role domain.StaffRole) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleLibrarian, domain.RoleStaff:
		return true
	}
	return false
}

// CreateStaff validates and stores a new staff record with active status.
func (a *App) CreateStaff(in StaffInput) (domain.Staff, error) {
	in.Name = validate.SanitizeString(in.Name)
	in.Department = validate.SanitizeString(in.Department)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Name == "" {
		return domain.Staff{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !validate.Email(in.Email) {
		return domain.Staff{}, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, in.Email)
	}
	if !validate.Phone(in.Phone) {
		return domain.Staff{}, fmt.Errorf("%w: invalid phone %q", ErrInvalidInput, in.Phone)
	}
	if !validStaffRole(in.Role) {
		return domain.Staff{}, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, in.Role)
	}
	if in.Password == "" {
		return domain.Staff{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("hash password: %w", err)
	}

	staff := domain.Staff{
		ID:           validate.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		EmployeeID:   in.EmployeeID,
		Role:         in.Role,
		Department:   in.Department,
		JoinDate:     a.now(),
		Salary:       in.Salary,
		Status:       domain.StaffActive,
		PasswordHash: hash,
	}
	if err := a.store.SaveStaff(staff); err != nil {
		return domain.Staff{}, fmt.Errorf("save staff: %w", err)
	}
	staff.PasswordHash = ""
	return staff, nil
}

// UpdateStaff applies a partial update; a supplied password is re-hashed.
func (a *App) UpdateStaff(id string, upd StaffUpdate) (domain.Staff, error) {
	staff, ok, err := a.store.GetStaff(id)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("get staff: %w", err)
	}
	if !ok {
		return domain.Staff{}, ErrStaffNotFound
	}

	if upd.Name != nil {
		name := validate.SanitizeString(*upd.Name)
		if name == "" {
			return domain.Staff{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		staff.Name = name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if !validate.Email(email) {
			return domain.Staff{}, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
		}
		staff.Email = email
	}
	if upd.Phone != nil {
		if !validate.Phone(*upd.Phone) {
			return domain.Staff{}, fmt.Errorf("%w: invalid phone %q", ErrInvalidInput, *upd.Phone)
		}
		staff.Phone = *upd.Phone
	}
	if upd.Role != nil {
		if !validStaffRole(*upd.Role) {
			return domain.Staff{}, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, *upd.Role)
		}
		staff.Role = *upd.Role
	}
	if upd.Department != nil {
		staff.Department = validate.SanitizeString(*upd.Department)
	}
	if upd.Salary != nil {
		staff.Salary = *upd.Salary
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return domain.Staff{}, fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return domain.Staff{}, fmt.Errorf("hash password: %w", err)
		}
		staff.PasswordHash = hash
	}

	if err := a.store.SaveStaff(staff); err != nil {
		return domain.Staff{}, fmt.Errorf("save staff: %w", err)
	}
	staff.PasswordHash = ""
	return staff, nil
}

// DeactivateStaff marks a staff record inactive; inactive staff cannot log in.
func (a *App) DeactivateStaff(id string) (domain.Staff, error) {
	return a.setStaffStatus(id, domain.StaffInactive)
}

// ActivateStaff marks a staff record active.
func (a *App) ActivateStaff(id string) (domain.Staff, error) {
	return a.setStaffStatus(id, domain.StaffActive)
}

func (a *App) setStaffStatus(id string, status domain.StaffStatus) (domain.Staff, error) {
	staff, ok, err := a.store.GetStaff(id)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("get staff: %w", err)
	}
	if !ok {
		return domain.Staff{}, ErrStaffNotFound
	}
	staff.Status = status
	if err := a.store.SaveStaff(staff); err != nil {
		return domain.Staff{}, fmt.Errorf("save staff: %w", err)
	}
	staff.PasswordHash = ""
	return staff, nil
}

// DeleteStaff removes a staff record.
func (a *App) DeleteStaff(id string) error {
	_, ok, err := a.store.GetStaff(id)
	if err != nil {
		return fmt.Errorf("get staff: %w", err)
	}
	if !ok {
		return ErrStaffNotFound
	}
	return a.store.DeleteStaff(id)
}

// GetStaffMember retrieves a staff record with the credential stripped.
func (a *App) GetStaffMember(id string) (domain.Staff, error) {
	staff, ok, err := a.store.GetStaff(id)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("get staff: %w", err)
	}
	if !ok {
		return domain.Staff{}, ErrStaffNotFound
	}
	staff.PasswordHash = ""
	return staff, nil
}

// ListStaff lists all staff with credentials stripped.
func (a *App) ListStaff() ([]domain.Staff, error) {
	staff, err := a.store.ListStaff()
	if err != nil {
		return nil, err
	}
	for i := range staff {
		staff[i].PasswordHash = ""
	}
	return staff, nil
}
