package models

import "stocktake/pkg/roles"

type User struct {
	ID           int        `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	FullName     *string    `json:"full_name" db:"full_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         roles.Role `json:"role" db:"role"`
}

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role" binding:"required"`
}

// Actor is the acting principal extracted from the request context and
// injected into every session and import operation.
type Actor struct {
	ID       int
	Username string
	Role     roles.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == roles.Admin
}

// CanManageSession reports whether the actor may mutate a session owned by
// employeeID: the owner themselves or any admin.
func (a Actor) CanManageSession(employeeID int) bool {
	return a.ID == employeeID || a.IsAdmin()
}
