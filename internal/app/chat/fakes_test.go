package chat

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
)

// fakeConn records every frame pushed to it.
type fakeConn struct {
	mu     sync.Mutex
	frames []pushedFrame

	// reject makes Send refuse every frame, simulating a full send queue.
	reject bool
}

type pushedFrame struct {
	event   string
	payload any
}

func (c *fakeConn) Send(event string, payload any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reject {
		return false
	}
	c.frames = append(c.frames, pushedFrame{event: event, payload: payload})
	return true
}

func (c *fakeConn) received() []pushedFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]pushedFrame, len(c.frames))
	copy(out, c.frames)
	return out
}

// memoryStore is an in-memory store.Store used by the engine tests.
type memoryStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	messages map[string]*model.Message
	groups   map[string]*model.Group

	// failSetOnline makes SetUserOnline fail, simulating a database outage.
	failSetOnline bool

	// failCreateGroup makes CreateGroup fail atomically: neither the group
	// nor the system message is persisted.
	failCreateGroup bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]*model.User),
		messages: make(map[string]*model.Message),
		groups:   make(map[string]*model.Group),
	}
}

func (s *memoryStore) addUser(id, firstName, lastName string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &model.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: firstName,
		LastName:  lastName,
	}
	s.users[id] = u
	return u
}

func (s *memoryStore) addGroup(g *model.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[g.ID] = g
}

func (s *memoryStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}

func (s *memoryStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memoryStore) GetUsersByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *memoryStore) SetUserOnline(ctx context.Context, id string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSetOnline {
		return errors.New("database unavailable")
	}
	if u, ok := s.users[id]; ok {
		u.Online = online
	}
	return nil
}

func (s *memoryStore) CreateMessage(ctx context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *m
	s.messages[m.ID] = &copied
	return nil
}

// GetMessagesByIDs preserves the order of ids, matching the database query.
func (s *memoryStore) GetMessagesByIDs(ctx context.Context, ids []string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Message{}
	for _, id := range ids {
		if m, ok := s.messages[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memoryStore) CreateGroup(ctx context.Context, g *model.Group, sysMsg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreateGroup {
		return errors.New("database unavailable")
	}

	msgCopy := *sysMsg
	s.messages[sysMsg.ID] = &msgCopy

	groupCopy := *g
	s.groups[g.ID] = &groupCopy
	return nil
}

func (s *memoryStore) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *g
	copied.MemberIDs = append([]string{}, g.MemberIDs...)
	copied.MessageIDs = append([]string{}, g.MessageIDs...)
	return &copied, nil
}

func (s *memoryStore) AppendGroupMessage(ctx context.Context, groupID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return store.ErrNotFound
	}
	g.MessageIDs = append(g.MessageIDs, messageID)
	return nil
}

func (s *memoryStore) UpdateGroupMembers(ctx context.Context, groupID string, memberIDs []string, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return store.ErrNotFound
	}
	g.MemberIDs = append([]string{}, memberIDs...)
	g.MessageIDs = append(g.MessageIDs, messageID)
	return nil
}

func (s *memoryStore) UpdateGroupPic(ctx context.Context, groupID string, pic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return store.ErrNotFound
	}
	g.Pic = pic
	return nil
}

func (s *memoryStore) DeleteGroup(ctx context.Context, groupID string, messageIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return store.ErrNotFound
	}
	for _, id := range messageIDs {
		delete(s.messages, id)
	}
	delete(s.groups, groupID)
	return nil
}

func (s *memoryStore) ListUserGroups(ctx context.Context, userID string) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Group{}
	for _, g := range s.groups {
		if g.AdminID == userID {
			out = append(out, *g)
			continue
		}
		for _, id := range g.MemberIDs {
			if id == userID {
				out = append(out, *g)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
