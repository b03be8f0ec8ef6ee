package chat

import (
	"encoding/json"
	"time"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

// MaxMessageContentLength is the maximum accepted plaintext length, in bytes,
// of a single message's content. The frame read limit caps the envelope; this
// caps the content itself.
const MaxMessageContentLength = 4096

// Client → server event tags.
const (
	EventSendMessage      = "sendMessage"
	EventSendGroupMessage = "sendGroupMessage"
	EventLeaveGroup       = "leaveGroup"
	EventDeleteGroup      = "deleteGroup"
)

// Server → client event tags.
const (
	EventReceiveMessage      = "receiveMessage"
	EventReceiveGroupMessage = "receiveGroupMessage"
	EventMemberLeft          = "memberLeft"
	EventGroupDeleted        = "groupDeleted"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SendMessageInput is the payload of a client sendMessage event.
type SendMessageInput struct {
	Sender      string            `json:"sender"`
	Recipient   string            `json:"recipient"`
	Content     string            `json:"content"`
	MessageType model.MessageType `json:"messageType"`
	FileURL     *string           `json:"fileUrl,omitempty"`
}

// SendGroupMessageInput is the payload of a client sendGroupMessage event.
type SendGroupMessageInput struct {
	GroupID     string            `json:"groupId"`
	Sender      string            `json:"sender"`
	Content     string            `json:"content"`
	MessageType model.MessageType `json:"messageType"`
	FileURL     *string           `json:"fileUrl,omitempty"`
}

// LeaveGroupInput is the payload of a client leaveGroup event.
type LeaveGroupInput struct {
	GroupID       string `json:"groupId"`
	LeavingMember string `json:"leavingMember"`
}

// DeleteGroupInput is the payload of a client deleteGroup event.
type DeleteGroupInput struct {
	GroupID string `json:"groupId"`
}

// MessagePayload is the resolved, decrypted form of a message pushed to
// clients. Content always carries plaintext; ciphertext never leaves the
// persistence boundary.
type MessagePayload struct {
	ID          string            `json:"id"`
	Sender      model.Profile     `json:"sender"`
	Recipient   *model.Profile    `json:"recipient"`
	Content     string            `json:"content"`
	MessageType model.MessageType `json:"messageType"`
	FileURL     *string           `json:"fileUrl,omitempty"`
	Timestamp   time.Time         `json:"timeStamp"`

	// GroupID is set only on group-context messages.
	GroupID string `json:"groupId,omitempty"`
}

// MemberLeftPayload is pushed to the remaining members, the admin, and the
// leaver's own connection after a member departs.
type MemberLeftPayload struct {
	Message         MessagePayload  `json:"messageData"`
	Group           model.GroupView `json:"updatedGroup"`
	LeavingMemberID string          `json:"leavingMemberId"`
}

// GroupDeletedPayload is pushed to every former member and the admin after a
// group is deleted.
type GroupDeletedPayload struct {
	GroupID    string `json:"groupId"`
	GroupName  string `json:"groupName"`
	GroupAdmin string `json:"groupAdmin"`
}
