package entity

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an authenticated account. Ids come from the identity provider
// for signed-in users; the billing webhook may create rows keyed by email only.
type User struct {
	Id        uuid.UUID
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
