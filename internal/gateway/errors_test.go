package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
)

func errorResponse(status int, message string, details ...string) error {
	resp := &github.ErrorResponse{
		Response: &http.Response{
			StatusCode: status,
			Request:    &http.Request{Method: http.MethodPost, URL: &url.URL{Path: "/user/repos"}},
		},
		Message:  message,
	}
	for _, d := range details {
		resp.Errors = append(resp.Errors, github.Error{Message: d})
	}
	return fmt.Errorf("wrapped: %w", resp)
}

func TestIsAlreadyExists(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"detail message", errorResponse(http.StatusUnprocessableEntity, "Repository creation failed.", "name already exists on this account"), true},
		{"top-level message", errorResponse(http.StatusUnprocessableEntity, "Name Already Exists"), true},
		{"other validation error", errorResponse(http.StatusUnprocessableEntity, "Repository creation failed.", "name is invalid"), false},
		{"wrong status", errorResponse(http.StatusConflict, "already exists"), false},
		{"plain error", errors.New("already exists"), false},
		{"nil", nil, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsAlreadyExists(tc.err))
		})
	}
}

func TestStatusClassifiers(t *testing.T) {
	assert.True(t, IsNotFound(errorResponse(http.StatusNotFound, "Not Found")))
	assert.False(t, IsNotFound(errorResponse(http.StatusForbidden, "Forbidden")))
	assert.True(t, IsNotModified(errorResponse(http.StatusNotModified, "")))
	assert.Equal(t, 0, StatusCode(errors.New("boom")))
	assert.Equal(t, 0, StatusCode(&github.ErrorResponse{}))
}
