// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/ratelimit"
	requestutil "github.com/Sparsh-bit/portfolio/internal/platform/request"
	"github.com/Sparsh-bit/portfolio/internal/platform/respond"
)

const acknowledgement = "Thank you for your message. We will get back to you soon!"

// Handler implements the contact form endpoint.
type Handler struct {
	inbox     Inbox
	reference func() string
}

// NewHandler constructs a [Handler] delivering to inbox.
func NewHandler(inbox Inbox) *Handler {
	return &Handler{inbox: inbox, reference: NewReference}
}

// Routes returns a [chi.Router] with POST / under the contact rate-limit class.
func (handler *Handler) Routes(security *middleware.Security) chi.Router {
	router := chi.NewRouter()
	middleware.Handle(router, http.MethodPost, "/", security.PublicRoute(handler.submit, ratelimit.ClassContact))
	return router
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type submitResponse struct {
	Message   string `json:"message"`
	Reference string `json:"reference"`
	RequestID string `json:"requestId"`
}

/*
submit accepts one contact form.

POST /api/contact

Response:
  - 200: submitResponse
  - 400: ErrValidation
  - 429: ErrRateLimited (contact class)
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request, security middleware.SecurityContext) error {
	var input submitRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		return err
	}

	submission, err := Validate(input.Name, input.Email, input.Message)
	if err != nil {
		return err
	}
	submission.Reference = handler.reference()
	submission.RequestID = security.RequestID

	if err := handler.inbox.Deliver(request.Context(), submission); err != nil {
		return fmt.Errorf("contact_deliver_failed: %w", err)
	}

	respond.OK(writer, submitResponse{
		Message:   acknowledgement,
		Reference: submission.Reference,
		RequestID: security.RequestID,
	})
	return nil
}
