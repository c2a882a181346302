// Package models defines client-side data models used by the user console.
package models

import "strings"

// User is a cached copy of a record owned by the remote service.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar"`
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserPage is one page of the remote user list. Only one page is kept in
// memory at a time.
type UserPage struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Items      []User `json:"data"`
}

// Credentials is the sign-in form payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
}

// UserUpdate is the body of an update request.
type UserUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UpdateAck is what the service echoes back after an update. It does not
// carry the updated record.
type UpdateAck struct {
	UpdatedAt string `json:"updatedAt"`
}
