/*
Package model contains the core data structures shared by the real-time chat
engine, the persistence layer, and the HTTP handlers.

It defines users, groups, messages, and the resolved projections of those
records that travel inside outbound event payloads.
*/
package model

// User represents a chat participant as stored in the users table.
type User struct {

	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Email is the account email address.
	Email string `json:"email"`

	// FirstName and LastName form the display name of the user.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// ProfilePic is the storage key of the user's profile picture, if any.
	ProfilePic string `json:"profilePic,omitempty"`

	// Status is the free-form status line set by the user.
	Status string `json:"status,omitempty"`

	// Online reports whether the user currently has a live connection.
	// Mutated by the presence tracker only.
	Online bool `json:"userOnline"`
}

// Profile is the subset of User fields embedded in outbound message payloads.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	ProfilePic string `json:"profilePic,omitempty"`
	Status     string `json:"status,omitempty"`
	Online     bool   `json:"userOnline"`
}

// Profile returns the display projection of the user.
func (u User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		ProfilePic: u.ProfilePic,
		Status:     u.Status,
		Online:     u.Online,
	}
}

// DisplayName returns the user's full display name.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
