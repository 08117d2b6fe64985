package handler

import (
	"pairlink/internal/app/room"
	"pairlink/internal/configs"
)

// AppDeps bundles the shared dependencies handed to every handler constructor.
type AppDeps struct {
	Rooms  *room.Service
	Config *configs.AppConfig
}
