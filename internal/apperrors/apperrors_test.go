package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusAndCodeMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{Validation("bad input"), http.StatusBadRequest, "invalid_request"},
		{InsufficientBalance("insufficient balance"), http.StatusBadRequest, "insufficient_balance"},
		{Auth("no token"), http.StatusUnauthorized, "unauthorized"},
		{NotFound("holding"), http.StatusNotFound, "not_found"},
		{Conflict("concurrent change"), http.StatusConflict, "conflict"},
		{Upstream("fetch failed", errors.New("timeout")), http.StatusBadGateway, "upstream_error"},
		{errors.New("something else"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.status {
			t.Errorf("%v: expected status %d, got %d", tt.err, tt.status, got)
		}
		if got := Code(tt.err); got != tt.code {
			t.Errorf("%v: expected code %s, got %s", tt.err, tt.code, got)
		}
	}
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	err := fmt.Errorf("applying transaction: %w", InsufficientBalance("insufficient balance"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Error("wrapping must preserve the error kind")
	}
	if HTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for wrapped error, got %d", HTTPStatus(err))
	}
}

func TestUpstreamUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("fetch failed", cause)
	if !errors.Is(err, cause) {
		t.Error("upstream error must expose its cause")
	}
}
