package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"bad request", NewBadRequest("Bad Request!"), http.StatusBadRequest, "Bad Request!"},
		{"not found", NewNotFound("Article not found"), http.StatusNotFound, "Article not found"},
		{"wrapped", fmt.Errorf("handler: %w", NewNotFound("Comment not found")), http.StatusNotFound, "Comment not found"},
		{"internal kind", New(Internal, "db exploded"), http.StatusInternalServerError, InternalMessage},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, InternalMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := Describe(tc.err)
			if status != tc.wantStatus || msg != tc.wantMsg {
				t.Fatalf("Describe() = %d %q, want %d %q", status, msg, tc.wantStatus, tc.wantMsg)
			}
		})
	}
}

func TestIs(t *testing.T) {
	if !Is(NewBadRequest("x"), BadRequest) {
		t.Error("expected BadRequest")
	}
	if Is(NewBadRequest("x"), NotFound) {
		t.Error("did not expect NotFound")
	}
	if !Is(errors.New("boom"), Internal) {
		t.Error("untyped errors are internal")
	}
}
