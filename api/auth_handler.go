package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdmahamud/portfolio-backend/errs"
	"github.com/mdmahamud/portfolio-backend/models"
)

const bcryptCost = 10

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	users         userStore
	tokens        tokenIssuer
	secureCookies bool
	validate      *validator.Validate
}

func newAuthHandler(users userStore, tokens tokenIssuer, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		users:         users,
		tokens:        tokens,
		secureCookies: secureCookies,
		validate:      validator.New(),
	}
}

// register creates the sole admin account
// @Summary Register admin
// @Description Bootstrap-once registration: creates the admin account on the first call and is permanently disabled afterwards
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Email, password and name"
// @Success 201 {object} models.User "Created admin account"
// @Failure 403 {object} ErrorResponse "Forbidden - Admin already exists"
// @Router /auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if err := h.validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("email, password, and name are required"))
			return
		}

		// Bootstrap-once: any existing user disables registration for good,
		// regardless of input.
		count, err := h.users.Count(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "users", err))
			return
		}
		if count > 0 {
			h.responder.WriteError(w, errs.NewForbiddenError("admin already exists, setup disabled"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := models.User{
			ID:       uuid.New(),
			Email:    req.Email,
			Password: string(hash),
			Name:     req.Name,
			Role:     models.RoleAdmin,
		}
		if err := h.users.Add(r.Context(), &user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		h.logger.Info().Str("email", user.Email).Msg("Admin account created")

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{
			"message": "admin created successfully",
			"user":    user,
		})
	}
}

// login verifies credentials and issues an admin session token
// @Summary Log in
// @Description Verifies email and password and sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Email and password"
// @Success 200 {object} models.User "Authenticated account"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if err := h.validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("email and password are required"))
			return
		}

		user, err := h.users.FindByEmail(r.Context(), req.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid email or password"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid email or password"))
			return
		}

		token, err := h.tokens.issue(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue session token"))
			return
		}
		setSessionCookie(w, token, h.tokens.ttl, h.secureCookies)

		h.logger.Info().Str("email", user.Email).Msg("Admin logged in")

		h.responder.WriteJSON(w, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}

// logout clears the session cookie.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w, h.secureCookies)
		w.WriteHeader(http.StatusNoContent)
	}
}
