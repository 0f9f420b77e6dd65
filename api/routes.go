package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public surface and the admin-gated mutation surface
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public endpoints
		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Post("/projects/{projectID}/like", handlers.projectHandler.likeProject())
		r.Post("/messages", handlers.messageHandler.createMessage())
		r.Post("/auth/register", handlers.authHandler.register())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())

		// Admin-only endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Patch("/projects", handlers.projectHandler.updateProject())
			r.Delete("/projects", handlers.projectHandler.deleteProject())

			r.Get("/messages", handlers.messageHandler.listMessages())
			r.Delete("/messages", handlers.messageHandler.deleteMessage())
		})
	})
}
