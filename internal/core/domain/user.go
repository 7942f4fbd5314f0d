package domain

import "time"

// MaxPasswordBytes is the longest secret the hasher accepts. Longer input
// is rejected rather than truncated.
const MaxPasswordBytes = 72

// User models an account that can authenticate against the API.
type User struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	EmailVerified bool       `json:"is_email_verified"`
	Active        bool       `json:"is_active"`
	Phone         string     `json:"phone_number,omitempty"`
	Address       string     `json:"address,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Sanitized returns a copy of u without the password hash. Every identity
// that leaves the service layer goes through here.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	if u.LastLogin != nil {
		ts := *u.LastLogin
		clone.LastLogin = &ts
	}
	return &clone
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
