package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mdmahamud/portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	messageHandler messageHandler
	authHandler    authHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// createProjectRequest is the body of POST /projects. ElementsImages is kept
// raw so a malformed value degrades to an empty list instead of failing the
// whole request.
type createProjectRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ThumbnailImage string          `json:"thumbnailImage"`
	PosterImage    string          `json:"posterImage"`
	ElementsImages json.RawMessage `json:"elementsImages"`
	AuthorName     string          `json:"authorName"`
	AccessibleLink string          `json:"accessibleLink"`
	Published      bool            `json:"published"`
	FeaturedOnHome bool            `json:"featuredOnHome"`
}

// ProjectUpdate is the set of fields an admin may change on a project.
// Anything not declared here is unreachable through the update endpoint, so a
// request body cannot touch internal fields like likes or timestamps.
type ProjectUpdate struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	ThumbnailImage *string   `json:"thumbnailImage"`
	PosterImage    *string   `json:"posterImage"`
	AccessibleLink *string   `json:"accessibleLink"`
	ElementsImages *[]string `json:"elementsImages"`
	Published      *bool     `json:"published"`
	FeaturedOnHome *bool     `json:"featuredOnHome"`
}

// changes maps the set fields onto their storage columns.
func (u ProjectUpdate) changes() map[string]any {
	updates := make(map[string]any)
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.ThumbnailImage != nil {
		updates["thumbnail_image"] = *u.ThumbnailImage
	}
	if u.PosterImage != nil {
		updates["poster_image"] = *u.PosterImage
	}
	if u.AccessibleLink != nil {
		updates["accessible_link"] = *u.AccessibleLink
	}
	if u.ElementsImages != nil {
		updates["elements_images"] = datatypes.JSONSlice[string](*u.ElementsImages)
	}
	if u.Published != nil {
		updates["published"] = *u.Published
	}
	if u.FeaturedOnHome != nil {
		updates["featured_on_home"] = *u.FeaturedOnHome
	}
	return updates
}

// updateProjectRequest is the body of PATCH /projects.
type updateProjectRequest struct {
	ID uuid.UUID `json:"id"`
	ProjectUpdate
}

// deleteProjectRequest is the body of DELETE /projects. The plaintext admin
// password must be re-supplied even with a valid session.
type deleteProjectRequest struct {
	ID       uuid.UUID `json:"id"`
	Password string    `json:"password"`
}

// ProjectPage wraps a paginated listing when withMeta is requested.
type ProjectPage struct {
	Projects    []*models.Project `json:"projects"`
	Total       int64             `json:"total"`
	Page        int               `json:"page"`
	TotalPages  int               `json:"totalPages"`
	HasNextPage bool              `json:"hasNextPage"`
}

type createMessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type deleteMessageRequest struct {
	ID uuid.UUID `json:"id"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
