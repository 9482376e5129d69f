package domain

import "strings"

// User is a registered user of the task service. Users are read-mostly
// reference data used to populate "responsible" selectors.
type User struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	// Password is only sent on registration; the service never returns it.
	Password string `json:"password,omitempty"`
}

// FullName returns "First Last", skipping empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Profile returns a copy of the user without the password, suitable for
// persisting in the credential store.
func (u User) Profile() User {
	u.Password = ""
	return u
}

// UserFromDisplayName builds a profile from a "First Last" display name, as
// returned by login endpoints that do not send a structured user.
func UserFromDisplayName(name, email string) User {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return User{
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     email,
	}
}

// AuthResult is the outcome of a successful login: the bearer token issued
// by the service and the profile of the authenticated user.
type AuthResult struct {
	Token string
	User  User
}
