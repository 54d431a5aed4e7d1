// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparsh-bit/portfolio/internal/contact"
	"github.com/Sparsh-bit/portfolio/internal/platform/cors"
	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/internal/platform/ratelimit"
	"github.com/Sparsh-bit/portfolio/internal/platform/sec"
)

type recordingInbox struct {
	received []contact.Submission
	err      error
}

func (inbox *recordingInbox) Deliver(_ context.Context, submission contact.Submission) error {
	inbox.received = append(inbox.received, submission)
	return inbox.err
}

func newRouter(t *testing.T, inbox contact.Inbox) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		Secret:     "contact-test-secret-that-is-at-least-32b",
		Issuer:     "portfolio-api",
		Audience:   "portfolio-client",
		Algorithm:  "HS256",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, false, logger)
	require.NoError(t, err)

	security, err := middleware.NewSecurity(middleware.SecurityDeps{
		CORS:    cors.NewValidator(cors.DefaultOptions([]string{"https://app.example.com"}, true, 86400)),
		Limiter: ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		Tokens:  tokens,
		Policies: ratelimit.Policies{
			ratelimit.ClassGlobal:  {Class: ratelimit.ClassGlobal, Window: time.Minute, MaxRequests: 100},
			ratelimit.ClassContact: {Class: ratelimit.ClassContact, Window: time.Hour, MaxRequests: 3},
		},
		Logger: logger,
	})
	require.NoError(t, err)

	return contact.NewHandler(inbox).Routes(security)
}

func submit(router http.Handler, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("X-Forwarded-For", "198.51.100.77")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

const validBody = `{"name":"Ada Lovelace","email":"ada@example.com","message":"Hello, I would like to talk about a project."}`

func TestSubmitEndpoint(t *testing.T) {
	inbox := &recordingInbox{}
	router := newRouter(t, inbox)

	response := submit(router, validBody)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "Thank you for your message")
	assert.Equal(t, "3", response.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", response.Header().Get("X-RateLimit-Remaining"))

	require.Len(t, inbox.received, 1)
	assert.NotEmpty(t, inbox.received[0].Reference)
	assert.Equal(t, response.Header().Get("X-Request-Id"), inbox.received[0].RequestID)
	assert.Contains(t, response.Body.String(), inbox.received[0].Reference)
}

func TestSubmitEndpointRejectsInvalid(t *testing.T) {
	inbox := &recordingInbox{}
	router := newRouter(t, inbox)

	response := submit(router, `{"name":"A","email":"nope","message":"short"}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Contains(t, response.Body.String(), `"field":"name"`)
	assert.Contains(t, response.Body.String(), `"field":"email"`)
	assert.Contains(t, response.Body.String(), `"field":"message"`)
	assert.Empty(t, inbox.received)
}

func TestSubmitEndpointRateLimited(t *testing.T) {
	router := newRouter(t, &recordingInbox{})

	for range 3 {
		require.Equal(t, http.StatusOK, submit(router, validBody).Code)
	}

	response := submit(router, validBody)
	assert.Equal(t, http.StatusTooManyRequests, response.Code)
	assert.Equal(t, "0", response.Header().Get("X-RateLimit-Remaining"))
}

func TestSubmitEndpointDeliveryFailure(t *testing.T) {
	router := newRouter(t, &recordingInbox{err: errors.New("smtp down")})

	response := submit(router, validBody)
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.NotContains(t, response.Body.String(), "smtp down")
}
