package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/service"
	"github.com/Abobakr505/Skandr-Shop/pkg/httputil"
	"github.com/Abobakr505/Skandr-Shop/pkg/pagination"
	"github.com/Abobakr505/Skandr-Shop/pkg/validator"
)

// ContactHandler handles HTTP requests for the contact form.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitMessageRequest is the JSON request body for the contact form.
type SubmitMessageRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,min=5,max=2000"`
}

// SubmitMessage handles POST /api/v1/contact
func (h *ContactHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	msg, err := h.service.SubmitMessage(r.Context(), service.SubmitMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: msg})
}

// ListMessages handles GET /api/v1/admin/contact-messages
func (h *ContactHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	messages, total, err := h.service.ListMessages(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(messages, total, params.Page, params.PerPage),
	})
}
