package handler

import (
	"github.com/arshGoyalDev/chat-app-backend/internal/app/chat"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/storage"
	"github.com/arshGoyalDev/chat-app-backend/internal/configs"
)

// AppDeps bundles the dependencies shared by the HTTP handlers.
type AppDeps struct {
	Hub         *chat.Hub
	Config      *configs.AppConfig
	FileStorage storage.FileStorage
}
