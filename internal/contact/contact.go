// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package contact accepts contact form submissions for the portfolio site.

Submissions are validated, HTML-escaped and handed to an [Inbox]. The bundled
inbox writes a structured log line; delivery by email is left to deployments.
*/
package contact

import (
	"context"
	"html"
	"log/slog"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/Sparsh-bit/portfolio/internal/platform/validate"
	"github.com/Sparsh-bit/portfolio/pkg/normalize"
)

// Length bounds, counted in characters after trimming.
const (
	NameMinLength    = 2
	NameMaxLength    = 100
	MessageMinLength = 10
	MessageMaxLength = 5000
)

// # Field Identifiers

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// # Domain Entities

// Submission is a validated contact request with escaped text fields.
type Submission struct {
	Reference string `json:"reference"`
	RequestID string `json:"requestId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// Inbox receives accepted submissions.
type Inbox interface {
	Deliver(ctx context.Context, submission Submission) error
}

// LogInbox records submissions as structured log lines. The message body is
// not logged, only its length.
type LogInbox struct {
	Logger *slog.Logger
}

// Deliver implements [Inbox].
func (inbox LogInbox) Deliver(ctx context.Context, submission Submission) error {
	logger := inbox.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "contact_submission_received",
		slog.String("reference", submission.Reference),
		slog.String("request_id", submission.RequestID),
		slog.String("name", submission.Name),
		slog.String("email", submission.Email),
		slog.Int("message_length", utf8.RuneCountInString(submission.Message)),
	)
	return nil
}

// NewReference returns a sortable submission reference.
func NewReference() string {
	return ulid.Make().String()
}

/*
Validate checks a raw submission and returns its sanitized form.

Parameters:
  - name, email, message: string (as received)

Returns:
  - Submission: Trimmed, escaped values (Reference and RequestID unset)
  - error: VALIDATION_ERROR with one detail per failing field
*/
func Validate(name, email, message string) (Submission, error) {
	name = normalize.Text(name)
	message = normalize.Text(message)
	email = normalize.Email(email)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name).
		MinLen(FieldName, name, NameMinLength).
		MaxLen(FieldName, name, NameMaxLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldMessage, message).
		MinLen(FieldMessage, message, MessageMinLength).
		MaxLen(FieldMessage, message, MessageMaxLength)

	if err := validator.Err(); err != nil {
		return Submission{}, err
	}

	return Submission{
		Name:    html.EscapeString(name),
		Email:   email,
		Message: html.EscapeString(message),
	}, nil
}
