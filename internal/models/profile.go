// internal/models/profile.go
package models

// Profile is the part of an applicant profile the matcher reads.
type Profile struct {
	UserID   string   `json:"userId"`
	FullName string   `json:"fullName,omitempty"`
	Email    string   `json:"email,omitempty"`
	Skills   []string `json:"skills"`
}
