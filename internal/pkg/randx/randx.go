/*
Package randx provides functions for generating unique identifiers.

It is used to generate standard UUID v4 identifiers for message, group, and
uploaded file records.
*/
package randx

import (
	"github.com/google/uuid"
)

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// GroupID generates a standard UUID v4 string to serve as a unique identifier for a group.
func GroupID() string {
	return uuid.New().String()
}

// FileID generates a standard UUID v4 string used to key uploaded files in object storage.
func FileID() string {
	return uuid.New().String()
}
