package model

import "time"

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User represents a user in the system
type User struct {
	ID               int        `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // Do not expose password hash in JSON responses
	Role             string     `json:"role"`
	ResetToken       *string    `json:"-"` // Set while a password reset is pending
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// RegisterRequest is used for registering a new user
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"omitempty,oneof=Admin User"`
}
