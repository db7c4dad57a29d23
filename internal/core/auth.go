package core

import (
	"errors"

	"github.com/jo-hoe/storefront/internal/backend/database"
)

var ErrPasswordMismatch = errors.New("new password is empty or does not match its confirmation")

// Authenticate returns the admin for a valid username/password pair, or
// database.ErrInvalidCredentials.
func (service *CoreService) Authenticate(username, password string) (*database.Admin, error) {
	return service.databaseService.VerifyAdminPassword(username, password)
}

// ChangePassword replaces username's password after verifying the current one.
func (service *CoreService) ChangePassword(username, current, next, confirm string) error {
	if next == "" || next != confirm {
		return ErrPasswordMismatch
	}
	if _, err := service.databaseService.VerifyAdminPassword(username, current); err != nil {
		return err
	}
	return service.databaseService.SetAdminPassword(username, next)
}
