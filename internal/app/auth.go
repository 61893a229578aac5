package app

import (
	"fmt"
	"strings"

	"librarydesk/pkg/auth"
	"librarydesk/pkg/domain"
)

// Login validates staff credentials and issues a session token. The staff
// record placed in the session and returned to the caller has its credential
// stripped.
func (a *App) Login(email, password string) (domain.Staff, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.Staff{}, "", ErrInvalidCredentials
	}
	staff, ok, err := a.store.GetStaffByEmail(email)
	if err != nil {
		return domain.Staff{}, "", fmt.Errorf("lookup staff: %w", err)
	}
	if !ok || !auth.CheckPassword(password, staff.PasswordHash) {
		return domain.Staff{}, "", ErrInvalidCredentials
	}
	if staff.Status != domain.StaffActive {
		return domain.Staff{}, "", ErrStaffInactive
	}
	staff.PasswordHash = ""
	token, err := a.sessions.NewSession(staff)
	if err != nil {
		return domain.Staff{}, "", fmt.Errorf("issue session: %w", err)
	}
	return staff, token, nil
}

// Logout deletes the session for the token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// CurrentStaff resolves a session token to the authenticated staff record.
func (a *App) CurrentStaff(token string) (domain.Staff, bool) {
	if token == "" {
		return domain.Staff{}, false
	}
	staff, ok, err := a.sessions.GetStaffByToken(token)
	if err != nil || !ok {
		return domain.Staff{}, false
	}
	return staff, true
}
