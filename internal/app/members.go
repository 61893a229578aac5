package app

import (
	"fmt"

	"librarydesk/pkg/domain"
	"librarydesk/pkg/validate"
)

// MemberInput carries the caller-supplied fields for a new membership.
// Borrow tracking fields are owned by the lending engine and cannot be set.
type MemberInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// MemberUpdate carries optional field changes; nil means "leave unchanged".
type MemberUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// CreateMember validates and stores a new member with active status.
func (a *App) CreateMember(in MemberInput) (domain.Member, error) {
	in.Username = validate.SanitizeString(in.Username)
	in.Address = validate.SanitizeString(in.Address)

	if in.Username == "" {
		return domain.Member{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !validate.Email(in.Email) {
		return domain.Member{}, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, in.Email)
	}
	if !validate.Phone(in.Phone) {
		return domain.Member{}, fmt.Errorf("%w: invalid phone %q", ErrInvalidInput, in.Phone)
	}

	member := domain.Member{
		ID:             validate.NewID(),
		Username:       in.Username,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		MembershipDate: a.now(),
		Status:         domain.MemberActive,
		BorrowedBooks:  []string{},
	}
	if err := a.store.SaveMember(member); err != nil {
		return domain.Member{}, fmt.Errorf("save member: %w", err)
	}
	return member, nil
}

// UpdateMember applies a partial update to contact fields.
func (a *App) UpdateMember(id string, upd MemberUpdate) (domain.Member, error) {
	member, ok, err := a.store.GetMember(id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}

	if upd.Username != nil {
		username := validate.SanitizeString(*upd.Username)
		if username == "" {
			return domain.Member{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
		}
		member.Username = username
	}
	if upd.Email != nil {
		if !validate.Email(*upd.Email) {
			return domain.Member{}, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, *upd.Email)
		}
		member.Email = *upd.Email
	}
	if upd.Phone != nil {
		if !validate.Phone(*upd.Phone) {
			return domain.Member{}, fmt.Errorf("%w: invalid phone %q", ErrInvalidInput, *upd.Phone)
		}
		member.Phone = *upd.Phone
	}
	if upd.Address != nil {
		member.Address = validate.SanitizeString(*upd.Address)
	}

	if err := a.store.SaveMember(member); err != nil {
		return domain.Member{}, fmt.Errorf("save member: %w", err)
	}
	return member, nil
}

// SuspendMember marks a member suspended.
func (a *App) SuspendMember(id string) (domain.Member, error) {
	return a.setMemberStatus(id, domain.MemberSuspended)
}

// ActivateMember marks a member active.
func (a *App) ActivateMember(id string) (domain.Member, error) {
	return a.setMemberStatus(id, domain.MemberActive)
}

func (a *App) setMemberStatus(id string, status domain.MemberStatus) (domain.Member, error) {
	member, ok, err := a.store.GetMember(id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}
	member.Status = status
	if err := a.store.SaveMember(member); err != nil {
		return domain.Member{}, fmt.Errorf("save member: %w", err)
	}
	return member, nil
}

// DeleteMember removes a membership record.
func (a *App) DeleteMember(id string) error {
	_, ok, err := a.store.GetMember(id)
	if err != nil {
		return fmt.Errorf("get member: %w", err)
	}
	if !ok {
		return ErrMemberNotFound
	}
	return a.store.DeleteMember(id)
}

// GetMember retrieves a membership record.
func (a *App) GetMember(id string) (domain.Member, error) {
	member, ok, err := a.store.GetMember(id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !ok {
		return domain.Member{}, ErrMemberNotFound
	}
	return member, nil
}

// ListMembers lists all members.
func (a *App) ListMembers() ([]domain.Member, error) {
	return a.store.ListMembers()
}
