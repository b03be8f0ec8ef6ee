/*
Package handler provides the HTTP handlers and routing setup for the chat backend.

This file contains the group endpoints: group creation (the one lifecycle
operation with a synchronous error channel back to the caller), the caller's
group list, and group message history.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/chat"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/auth/jwt"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/errs"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/req"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/resp"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateGroupInput defines the JSON input structure for group creation.
type CreateGroupInput struct {
	GroupName        string   `json:"groupName" validate:"required,max=100"`
	GroupDescription string   `json:"groupDescription" validate:"max=500"`
	GroupPic         string   `json:"groupPic"`
	GroupMembers     []string `json:"groupMembers" validate:"required,min=1,dive,required"`
}

// HandleCreateGroup processes a group creation request from the
// authenticated user, who becomes the group admin.
func HandleCreateGroup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateGroupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := validate.Struct(input); err != nil {
			if input.GroupName == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrGroupNameRequired))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		group, createErr := deps.Hub.Lifecycle().CreateGroup(r.Context(), chat.CreateGroupInput{
			AdminID:     identity.UserID,
			Name:        input.GroupName,
			Description: input.GroupDescription,
			Pic:         input.GroupPic,
			MemberIDs:   input.GroupMembers,
		})
		if createErr != nil {
			resp.RespondError(w, r, createErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"group": group,
		})
	}
}

// HandleGetUserGroups returns the groups where the authenticated user is the
// admin or a member, newest activity first.
func HandleGetUserGroups(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		groups, err := deps.Hub.Lifecycle().ListUserGroups(r.Context(), identity.UserID)
		if err != nil {
			logx.Error(err, "Failed to list user groups", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"groupsList": groups,
		})
	}
}

// GroupPicInput defines the JSON input structure for updating a group picture.
type GroupPicInput struct {
	GroupID string `json:"groupId" validate:"required"`
	FileKey string `json:"fileKey" validate:"required,startswith=group-pic/"`
}

// HandleUpdateGroupPic points the group at an already uploaded picture key and
// releases the previously stored picture, if any.
func HandleUpdateGroupPic(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input GroupPicInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if err := validate.Struct(input); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		oldKey, group, err := deps.Hub.Lifecycle().SetGroupPic(r.Context(), input.GroupID, input.FileKey)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrGroupNotFound))
				return
			}
			logx.Error(err, "Failed to update group pic", "group_id", input.GroupID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if oldKey != "" && oldKey != input.FileKey {
			if err := deps.FileStorage.Delete(r.Context(), oldKey); err != nil {
				// The group already points at the new picture; the stale
				// object is only leaked storage.
				logx.Error(err, "Failed to delete previous group pic", "key", oldKey)
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"group": group,
		})
	}
}

// RemoveGroupPicInput defines the JSON input structure for removing a group picture.
type RemoveGroupPicInput struct {
	GroupID string `json:"groupId" validate:"required"`
}

// HandleRemoveGroupPic clears the group's picture reference and deletes the
// stored object.
func HandleRemoveGroupPic(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input RemoveGroupPicInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if err := validate.Struct(input); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		oldKey, group, err := deps.Hub.Lifecycle().SetGroupPic(r.Context(), input.GroupID, "")
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrGroupNotFound))
				return
			}
			logx.Error(err, "Failed to remove group pic", "group_id", input.GroupID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if oldKey != "" {
			if err := deps.FileStorage.Delete(r.Context(), oldKey); err != nil {
				logx.Error(err, "Failed to delete group pic object", "key", oldKey)
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"group": group,
		})
	}
}

// GroupMessagesInput defines the JSON input structure for fetching group history.
type GroupMessagesInput struct {
	GroupID string `json:"groupId" validate:"required"`
}

// HandleGetGroupMessages returns the group's message history with content
// decrypted per message; undecodable records come back with a placeholder.
func HandleGetGroupMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input GroupMessagesInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if err := validate.Struct(input); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.Hub.Lifecycle().GroupMessages(r.Context(), input.GroupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrGroupNotFound))
				return
			}
			logx.Error(err, "Failed to load group messages", "group_id", input.GroupID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}
