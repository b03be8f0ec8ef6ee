package chat

import (
	"context"
	"fmt"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
)

// resolveGroupView loads the admin and member records referenced by the group
// and returns the group with display profiles attached.
func resolveGroupView(ctx context.Context, users store.UserStore, g *model.Group) (*model.GroupView, error) {
	admin, err := users.GetUserByID(ctx, g.AdminID)
	if err != nil {
		return nil, fmt.Errorf("resolve group admin %s: %w", g.AdminID, err)
	}

	memberUsers, err := users.GetUsersByIDs(ctx, g.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve group members: %w", err)
	}

	members := make([]model.Profile, 0, len(memberUsers))
	for _, m := range memberUsers {
		members = append(members, m.Profile())
	}

	return &model.GroupView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Pic:         g.Pic,
		Admin:       admin.Profile(),
		Members:     members,
		MessageIDs:  g.MessageIDs,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}, nil
}
