package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"
)

const errMsgAlreadyExists = "already exists"

// IsAlreadyExists reports whether GitHub rejected a create because the name is taken.
// GitHub puts the reason in errors[].message and a generic text in message, so both are checked.
func IsAlreadyExists(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || statusCode(errResp) != http.StatusUnprocessableEntity {
		return false
	}
	if containsFold(errResp.Message, errMsgAlreadyExists) {
		return true
	}
	for _, e := range errResp.Errors {
		if containsFold(e.Message, errMsgAlreadyExists) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsNotModified reports whether the API answered 304.
func IsNotModified(err error) bool {
	return StatusCode(err) == http.StatusNotModified
}

// StatusCode returns the HTTP status carried by a GitHub API error, or 0.
func StatusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return statusCode(errResp)
	}
	return 0
}

func statusCode(errResp *github.ErrorResponse) int {
	if errResp.Response == nil {
		return 0
	}
	return errResp.Response.StatusCode
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
