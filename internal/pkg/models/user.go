package models

import (
	"database/sql"
	"time"
)

// UserRole represents a user's role in the system
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleEmployee UserRole = "EMPLOYEE"
)

// UserStatus represents a user account's lifecycle state
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User represents a user account; employees double as drivers
type User struct {
	ID              string     `json:"id" db:"id"`
	Email           string     `json:"email" db:"email"`
	Name            string     `json:"name" db:"name"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	Role            UserRole   `json:"role" db:"role"`
	Status          UserStatus `json:"status" db:"status"`
	AssignedVehicle string     `json:"assigned_vehicle,omitempty" db:"-"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// UserDTO flattens the nullable assigned_vehicle column for scanning.
type UserDTO struct {
	ID              string         `db:"id"`
	Email           string         `db:"email"`
	Name            string         `db:"name"`
	PasswordHash    string         `db:"password_hash"`
	Role            UserRole       `db:"role"`
	Status          UserStatus     `db:"status"`
	AssignedVehicle sql.NullString `db:"assigned_vehicle"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// ToUser converts a scanned row to the API model.
func (d *UserDTO) ToUser() *User {
	u := &User{
		ID:           d.ID,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.AssignedVehicle.Valid {
		u.AssignedVehicle = d.AssignedVehicle.String
	}
	return u
}

// RegisterRequest represents a signup request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      *User  `json:"user"`
}
