package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mdmahamud/portfolio-backend/errs"
	"github.com/mdmahamud/portfolio-backend/models"
	"github.com/mdmahamud/portfolio-backend/services"
)

// Deliberately loose shape check: anything@anything.anything.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type messageHandler struct {
	responder Responder
	logger    zerolog.Logger
	messages  messageStore
	notifier  *services.Notifier
	validate  *validator.Validate
}

func newMessageHandler(messages messageStore, notifier *services.Notifier) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		messages:  messages,
		notifier:  notifier,
		validate:  validator.New(),
	}
}

// createMessage stores an inbound contact-form message
// @Summary Create contact message
// @Description Stores a visitor inquiry. Public. At most 5 messages per email address
// @Tags Messages
// @Accept json
// @Produce json
// @Param message body createMessageRequest true "Name, email and message"
// @Success 201 {object} models.ContactMessage "Created message"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid fields"
// @Failure 429 {object} ErrorResponse "Too Many Requests - Message limit reached for this email"
// @Router /messages [post]
func (h messageHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Message = strings.TrimSpace(req.Message)

		if err := h.validate.Struct(req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("name, email, and message are required"))
			return
		}
		if !emailShape.MatchString(req.Email) {
			h.responder.WriteError(w, errs.NewValidationError("email", "invalid email address"))
			return
		}

		// Check-then-act against the store; concurrent sends can overshoot the
		// cap slightly. Accepted soft constraint.
		count, err := h.messages.CountByEmail(r.Context(), req.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "messages", err))
			return
		}
		if count >= models.MaxMessagesPerEmail {
			h.responder.WriteError(w, errs.NewRateLimitError("message limit reached (max 5 per email)"))
			return
		}

		message := models.ContactMessage{
			ID:      uuid.New(),
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		}
		if err := h.messages.Add(r.Context(), &message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "message", err))
			return
		}

		// Owner notification is best-effort and never delays the visitor.
		if h.notifier.Enabled() {
			go h.notifier.ContactMessageReceived(message)
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, message)
	}
}

// listMessages returns all contact messages, newest first. Admin only.
func (h messageHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		messages, err := h.messages.FindAllNewestFirst(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "messages", err))
			return
		}
		if messages == nil {
			messages = []*models.ContactMessage{}
		}

		h.responder.WriteJSON(w, messages)
	}
}

// deleteMessage removes a contact message unconditionally. Admin only.
func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.ID == uuid.Nil {
			h.responder.WriteError(w, errs.NewValidationError("id", "message id is required"))
			return
		}

		if err := h.messages.Delete(r.Context(), req.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "message", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "message deleted successfully",
		})
	}
}
