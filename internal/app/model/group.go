package model

import "time"

// Group is a persisted chat group. MemberIDs holds the current member set
// (unique, order irrelevant); MessageIDs is the append-only, chronological
// list of message ids linked to the group.
//
// The admin is tracked on its own axis and is not guaranteed to appear in
// MemberIDs.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"groupName"`
	Description string    `json:"groupDescription,omitempty"`
	Pic         string    `json:"groupPic,omitempty"`
	AdminID     string    `json:"groupAdmin"`
	MemberIDs   []string  `json:"groupMembers"`
	MessageIDs  []string  `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupView is a Group with its admin and member references resolved to
// display profiles. It is the shape groups take in outbound event payloads
// and HTTP responses.
type GroupView struct {
	ID          string    `json:"id"`
	Name        string    `json:"groupName"`
	Description string    `json:"groupDescription,omitempty"`
	Pic         string    `json:"groupPic,omitempty"`
	Admin       Profile   `json:"groupAdmin"`
	Members     []Profile `json:"groupMembers"`
	MessageIDs  []string  `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
