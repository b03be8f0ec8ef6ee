/*
Package store provides persistent storage for users, groups, and messages.

The Store interfaces are the only way the real-time engine and the HTTP
handlers touch the database; the pgx-backed implementation lives in this
package, and tests substitute in-memory fakes.

Atomicity model: a single row write is atomic (a group's member list and
message list live on the group row); group creation and group deletion span
multiple rows and run inside a database transaction.
*/
package store

import (
	"context"
	"errors"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

// ErrNotFound is returned when a referenced user, group, or message does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore resolves and mutates user records.
type UserStore interface {
	// GetUserByID returns the user with the given id, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// GetUsersByIDs returns the users whose ids appear in ids. Unknown ids are
	// simply absent from the result; callers compare lengths to detect them.
	GetUsersByIDs(ctx context.Context, ids []string) ([]model.User, error)

	// SetUserOnline persists the user's online flag. The update is
	// unconditional: an id with no row is not an error.
	SetUserOnline(ctx context.Context, id string, online bool) error
}

// MessageStore persists and resolves message records.
type MessageStore interface {
	// CreateMessage appends a new message record. Content must already be ciphertext.
	CreateMessage(ctx context.Context, m *model.Message) error

	// GetMessagesByIDs returns the messages with the given ids in the order
	// the ids are listed.
	GetMessagesByIDs(ctx context.Context, ids []string) ([]model.Message, error)
}

// GroupStore persists and mutates group records.
type GroupStore interface {
	// CreateGroup inserts the group-created system message and the group row
	// in one transaction. Neither survives if the other fails.
	CreateGroup(ctx context.Context, g *model.Group, sysMsg *model.Message) error

	// GetGroupByID returns the group with the given id, or ErrNotFound.
	GetGroupByID(ctx context.Context, id string) (*model.Group, error)

	// AppendGroupMessage atomically appends messageID to the group's message
	// list. Returns ErrNotFound when the group no longer exists; the message
	// row itself is left behind in that case (documented orphan window).
	AppendGroupMessage(ctx context.Context, groupID, messageID string) error

	// UpdateGroupMembers replaces the group's member list and appends
	// messageID to its message list in a single row write.
	UpdateGroupMembers(ctx context.Context, groupID string, memberIDs []string, messageID string) error

	// UpdateGroupPic replaces the group's picture reference. An empty pic
	// clears it.
	UpdateGroupPic(ctx context.Context, groupID string, pic string) error

	// DeleteGroup removes every message referenced by the group and the group
	// row itself in one transaction.
	DeleteGroup(ctx context.Context, groupID string, messageIDs []string) error

	// ListUserGroups returns the groups where userID is the admin or a
	// member, most recently updated first.
	ListUserGroups(ctx context.Context, userID string) ([]model.Group, error)
}

// Store bundles the per-record stores implemented by the database layer.
type Store interface {
	UserStore
	MessageStore
	GroupStore
}
