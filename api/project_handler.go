package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdmahamud/portfolio-backend/database"
	"github.com/mdmahamud/portfolio-backend/errs"
	"github.com/mdmahamud/portfolio-backend/models"
)

// maxPageLimit caps the page size a listing request may ask for.
const maxPageLimit = 50

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	users     userStore
	cache     *projectCache
}

func newProjectHandler(projects projectStore, users userStore, cacheTTL time.Duration) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		users:     users,
		cache:     newProjectCache(projects.FindByID, cacheTTL),
	}
}

// projectColumns maps the JSON field names accepted by the fields query param
// onto storage columns. Unknown names are dropped, which keeps the projection
// an allow-list rather than raw SQL.
var projectColumns = map[string]string{
	"id":             "id",
	"title":          "title",
	"description":    "description",
	"thumbnailImage": "thumbnail_image",
	"posterImage":    "poster_image",
	"elementsImages": "elements_images",
	"authorName":     "author_name",
	"likes":          "likes",
	"publishDate":    "publish_date",
	"accessibleLink": "accessible_link",
	"published":      "published",
	"featuredOnHome": "featured_on_home",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

func parseFields(raw string) []string {
	if raw == "" {
		return nil
	}
	var columns []string
	for _, field := range strings.Split(raw, ",") {
		if column, ok := projectColumns[strings.TrimSpace(field)]; ok {
			columns = append(columns, column)
		}
	}
	return columns
}

// parseLimit treats zero, negative, or non-numeric limits as "no pagination"
// and caps anything larger than maxPageLimit.
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// listProjects retrieves projects with optional filtering, projection and pagination
// @Summary List projects
// @Description Retrieves projects, newest first, with optional published/featured filters, field projection, pagination and count-only mode
// @Tags Projects
// @Accept json
// @Produce json
// @Param published query bool false "Only published projects"
// @Param featured query bool false "Only projects featured on the home page"
// @Param countOnly query bool false "Return only the total count"
// @Param withMeta query bool false "Wrap the result with pagination metadata"
// @Param fields query string false "Comma-separated field projection"
// @Param page query int false "Page number (with limit)"
// @Param limit query int false "Page size, capped at 50; omit for the full list"
// @Success 200 {array} models.Project "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := database.ProjectFilter{
			PublishedOnly: query.Get("published") == "true",
			FeaturedOnly:  query.Get("featured") == "true",
		}

		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		if query.Get("countOnly") == "true" {
			total, err := h.projects.Count(r.Context(), filter)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("count", "projects", err))
				return
			}
			h.responder.WriteJSON(w, map[string]int64{"total": total})
			return
		}

		page := parsePage(query.Get("page"))
		limit := parseLimit(query.Get("limit"))
		opts := database.ListOptions{
			Fields: parseFields(query.Get("fields")),
			Page:   page,
			Limit:  limit,
		}

		projects, err := h.projects.FindAll(r.Context(), filter, opts)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		if projects == nil {
			projects = []*models.Project{}
		}

		if query.Get("withMeta") != "true" {
			h.responder.WriteJSON(w, projects)
			return
		}

		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		total, err := h.projects.Count(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "projects", err))
			return
		}

		totalPages := 1
		hasNextPage := false
		if limit > 0 {
			totalPages = int((total + int64(limit) - 1) / int64(limit))
			hasNextPage = int64(page*limit) < total
		}

		h.responder.WriteJSON(w, ProjectPage{
			Projects:    projects,
			Total:       total,
			Page:        page,
			TotalPages:  totalPages,
			HasNextPage: hasNextPage,
		})
	}
}

// getProject retrieves a single project by ID through the detail cache
// @Summary Get project
// @Description Retrieves a single project by ID. Served through a time-windowed cache, so recent admin edits may take up to the window to appear
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.cache.get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project. Requires an admin session
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized - No admin session"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title == "" {
			h.responder.WriteError(w, errs.NewValidationError("title", "title is required"))
			return
		}
		if req.Description == "" {
			h.responder.WriteError(w, errs.NewValidationError("description", "description is required"))
			return
		}
		if req.ThumbnailImage == "" && req.PosterImage == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("thumbnail or poster image is required"))
			return
		}

		// A missing or malformed elementsImages value degrades to an empty list
		var elements []string
		if len(req.ElementsImages) > 0 {
			if err := json.Unmarshal(req.ElementsImages, &elements); err != nil {
				elements = nil
			}
		}
		if elements == nil {
			elements = []string{}
		}

		if req.FeaturedOnHome {
			// Check-then-act: two concurrent creates can both pass and overshoot
			// the cap by one. Accepted soft constraint.
			featured, err := h.projects.CountFeatured(r.Context(), uuid.Nil)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("count featured", "projects", err))
				return
			}
			if featured >= models.MaxFeaturedProjects {
				h.responder.WriteError(w, errs.NewBadRequestError("featured project limit reached"))
				return
			}
		}

		authorName := req.AuthorName
		if authorName == "" {
			authorName = models.DefaultAuthorName
		}

		project := models.Project{
			ID:             uuid.New(),
			Title:          req.Title,
			Description:    req.Description,
			ThumbnailImage: req.ThumbnailImage,
			PosterImage:    req.PosterImage,
			ElementsImages: elements,
			AuthorName:     authorName,
			PublishDate:    time.Now(),
			AccessibleLink: req.AccessibleLink,
			Published:      req.Published,
			FeaturedOnHome: req.FeaturedOnHome,
		}

		if err := h.projects.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateProject applies an allow-listed partial update to an existing project
// @Summary Update project
// @Description Applies a partial update restricted to the permitted field set. Requires an admin session
// @Tags Projects
// @Accept json
// @Produce json
// @Param update body updateProjectRequest true "Project id and fields to update"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid update"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project update body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.ID == uuid.Nil {
			h.responder.WriteError(w, errs.NewValidationError("id", "project id is required"))
			return
		}

		existing, err := h.projects.FindByID(r.Context(), req.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		// The thumbnail-or-poster rule is checked against the merged state:
		// existing values hold unless the request overrides them.
		nextThumbnail := existing.ThumbnailImage
		if req.ThumbnailImage != nil {
			nextThumbnail = *req.ThumbnailImage
		}
		nextPoster := existing.PosterImage
		if req.PosterImage != nil {
			nextPoster = *req.PosterImage
		}
		if nextThumbnail == "" && nextPoster == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("thumbnail or poster image is required"))
			return
		}

		if req.FeaturedOnHome != nil && *req.FeaturedOnHome && !existing.FeaturedOnHome {
			featured, err := h.projects.CountFeatured(r.Context(), req.ID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("count featured", "projects", err))
				return
			}
			if featured >= models.MaxFeaturedProjects {
				h.responder.WriteError(w, errs.NewBadRequestError("featured project limit reached"))
				return
			}
		}

		updates := req.changes()
		if len(updates) == 0 {
			h.responder.WriteJSON(w, existing)
			return
		}

		updated, err := h.projects.ApplyUpdates(r.Context(), req.ID, updates)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject deletes a project after re-verifying the admin's password
// @Summary Delete project
// @Description Deletes a project. Requires an admin session and the admin password in the body. A wrong password returns 403, which the dashboard treats as a forced sign-out
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body deleteProjectRequest true "Project id and admin password"
// @Success 200 {object} map[string]string "Success message"
// @Failure 403 {object} ErrorResponse "Forbidden - Wrong password"
// @Failure 404 {object} ErrorResponse "Not Found - Project or user not found"
// @Router /projects [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req deleteProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.ID == uuid.Nil || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("project id and password are required"))
			return
		}

		user, err := h.users.FindByEmail(r.Context(), session.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewForbiddenError("invalid password"))
			return
		}

		project, err := h.projects.FindByID(r.Context(), req.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if err := h.projects.Delete(r.Context(), req.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// likeProject increments a project's like counter
// @Summary Like project
// @Description Atomically increments the like counter and returns the new value. Public; the server does not dedup repeat likes - the client remembers per browser that it already liked a project. A determined client can call this repeatedly
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]int "New like count"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID}/like [post]
func (h projectHandler) likeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		likes, found, err := h.projects.IncrementLikes(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("like", "project", err))
			return
		}
		if !found {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, map[string]int{"likes": likes})
	}
}
