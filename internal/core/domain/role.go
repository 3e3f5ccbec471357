package domain

import "time"

// Role is the fixed role enum. Authorization compares roles by rank, not by
// equality, so adding branches per role name is never needed.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// roleRanks orders the enum: user < admin < super_admin.
var roleRanks = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Rank returns the numeric position of the role in the hierarchy.
// Unknown roles rank 0, below every real role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r grants everything required does.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank()
}

// Valid reports whether r is one of the three seeded roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// RoleRecord is the persisted role row. Exactly one row exists per enum
// value; they are created once at startup and referenced by ID from users.
type RoleRecord struct {
	ID        string    `json:"id" bson:"_id"`
	Name      Role      `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
