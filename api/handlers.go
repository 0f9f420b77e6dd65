package api

import (
	"time"

	"github.com/mdmahamud/portfolio-backend/config"
	"github.com/mdmahamud/portfolio-backend/database"
	"github.com/mdmahamud/portfolio-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, tokens tokenIssuer, notifier *services.Notifier, c map[string]string) *routeHandlers {
	cacheTTL := time.Duration(config.GetInt(c, "PROJECT_CACHE_TTL_SECONDS", 300)) * time.Second
	secureCookies := config.GetBool(c, "SECURE_COOKIES", true)

	return &routeHandlers{
		projectHandler: newProjectHandler(database.ProjectRepo(), database.UserRepo(), cacheTTL),
		messageHandler: newMessageHandler(database.MessageRepo(), notifier),
		authHandler:    newAuthHandler(database.UserRepo(), tokens, secureCookies),
	}
}
