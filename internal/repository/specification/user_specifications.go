package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmailInsensitive matches regardless of case; payment providers do not
// preserve the casing the user signed up with.
type ByEmailInsensitive struct {
	Email string
}

func (s ByEmailInsensitive) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(s.Email)))
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
