// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sparsh-bit/portfolio/internal/platform/ctxutil"
	"github.com/Sparsh-bit/portfolio/internal/platform/middleware"
	"github.com/Sparsh-bit/portfolio/pkg/uuid"
)

/*
TestRequestID verifies that every request gets a fresh UUID, ignoring client input.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-Id", "client-chosen")
	response := httptest.NewRecorder()
	handler.ServeHTTP(response, request)

	assert.NotEqual(t, "client-chosen", seen)
	assert.True(t, uuid.Valid(seen))
	assert.Equal(t, seen, response.Header().Get("X-Request-Id"))
}

/*
TestStructuredLogger verifies the finish log carries the request id and status.
*/
func TestStructuredLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := middleware.RequestID()(middleware.StructuredLogger(logger)(http.HandlerFunc(
		func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusTeapot)
		})))

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Contains(t, buffer.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, buffer.String(), `"status":418`)
	assert.Contains(t, buffer.String(), response.Header().Get("X-Request-Id"))
}

/*
TestPanicRecovery verifies panics outside the security pipeline become a JSON 500.
*/
func TestPanicRecovery(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := middleware.StructuredLogger(logger)(middleware.PanicRecovery(logger)(http.HandlerFunc(
		func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})))

	response := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Contains(t, response.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, buffer.String(), "panic_recovered")
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.9:4321"
	assert.Equal(t, "192.0.2.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	assert.Equal(t, "203.0.113.1", middleware.RealIP(request))
}
