// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparsh-bit/portfolio/internal/contact"
	"github.com/Sparsh-bit/portfolio/internal/platform/apperr"
)

const validMessage = "Hello, I would like to talk about a project."

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     [3]string
		wantField string
	}{
		{"valid", [3]string{"Ada Lovelace", "ada@example.com", validMessage}, ""},
		{"name_too_short", [3]string{"A", "ada@example.com", validMessage}, contact.FieldName},
		{"name_too_long", [3]string{strings.Repeat("a", 101), "ada@example.com", validMessage}, contact.FieldName},
		{"name_blank", [3]string{"   ", "ada@example.com", validMessage}, contact.FieldName},
		{"email_invalid", [3]string{"Ada", "ada@", validMessage}, contact.FieldEmail},
		{"email_missing", [3]string{"Ada", "", validMessage}, contact.FieldEmail},
		{"message_too_short", [3]string{"Ada", "ada@example.com", "Hi there"}, contact.FieldMessage},
		{"message_too_long", [3]string{"Ada", "ada@example.com", strings.Repeat("m", 5001)}, contact.FieldMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contact.Validate(tt.input[0], tt.input[1], tt.input[2])
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)

			fields := make([]string, 0, len(appError.Details))
			for _, detail := range appError.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateSanitizes(t *testing.T) {
	submission, err := contact.Validate(
		"  <b>Mallory</b> ",
		" Mallory@Example.COM ",
		`<script>alert("x")</script> & more text`,
	)
	require.NoError(t, err)

	assert.Equal(t, "&lt;b&gt;Mallory&lt;/b&gt;", submission.Name)
	assert.Equal(t, "mallory@example.com", submission.Email)
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; more text", submission.Message)
}

func TestNewReference(t *testing.T) {
	first := contact.NewReference()
	second := contact.NewReference()

	_, err := ulid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLogInboxOmitsBody(t *testing.T) {
	var buffer bytes.Buffer
	inbox := contact.LogInbox{Logger: slog.New(slog.NewJSONHandler(&buffer, nil))}

	require.NoError(t, inbox.Deliver(context.Background(), contact.Submission{
		Reference: "01J00000000000000000000000",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "secret body text",
	}))

	assert.Contains(t, buffer.String(), `"msg":"contact_submission_received"`)
	assert.Contains(t, buffer.String(), `"message_length":16`)
	assert.NotContains(t, buffer.String(), "secret body text")
}
