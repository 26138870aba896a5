package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role роль пользователя
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Profile represents a registered pilot or administrator.
// Profiles are created by the identity provider, the service only reads them.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin returns true if the profile has the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// FullName returns "first last" or an empty string
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Identity текущий вызывающий. Нулевое значение означает анонимного пользователя.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Anonymous возвращает анонимную identity
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous returns true if no user is authenticated
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// IsAdmin returns true for an authenticated administrator
func (i Identity) IsAdmin() bool {
	return !i.IsAnonymous() && i.Role == RoleAdmin
}

// RequireUser возвращает ErrAuthRequired для анонимного вызова
func (i Identity) RequireUser() error {
	if i.IsAnonymous() {
		return ErrAuthRequired
	}
	return nil
}

// RequireAdmin возвращает ErrAuthRequired для анонимного вызова
// и ErrAccessDenied для пользователя без роли admin
func (i Identity) RequireAdmin() error {
	if err := i.RequireUser(); err != nil {
		return err
	}
	if !i.IsAdmin() {
		return ErrAccessDenied
	}
	return nil
}
