package domain

import "time"

// Account models a registered person. Accounts are never removed; deactivated
// accounts drop out of listings but stay addressable by email.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastName     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AccountPatch lists the fields an administrator may overwrite. Nil means
// unchanged. Email and password are deliberately absent.
type AccountPatch struct {
	Name     *string
	LastName *string
	Role     *Role
	Active   *bool
}
