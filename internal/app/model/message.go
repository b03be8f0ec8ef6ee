package model

import "time"

// MessageType tags the kind of message stored in a message record.
type MessageType string

const (
	// MessageTypeText is a user-typed text message.
	MessageTypeText MessageType = "text"

	// MessageTypeFile is a message carrying a file reference.
	MessageTypeFile MessageType = "file"

	// MessageTypeGroupCreated is the system message recorded when a group is created.
	MessageTypeGroupCreated MessageType = "create"

	// MessageTypeMemberLeft is the system message recorded when a member leaves a group.
	MessageTypeMemberLeft MessageType = "leaving"
)

// Message is a persisted chat message. Content always holds ciphertext; it is
// decrypted only at the edges (outbound push and history retrieval).
//
// RecipientID is nil if and only if the message was produced in a group
// context, including system messages.
type Message struct {
	ID          string      `json:"id"`
	SenderID    string      `json:"sender"`
	RecipientID *string     `json:"recipient"`
	Content     string      `json:"content"`
	Type        MessageType `json:"messageType"`
	FileURL     *string     `json:"fileUrl,omitempty"`
	Timestamp   time.Time   `json:"timeStamp"`
}
