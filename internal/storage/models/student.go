package models

import "time"

// Student represents one roster entry tracked by curators.
type Student struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	GroupName string    `json:"group_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
