package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_ErrorString(t *testing.T) {
	cause := errors.New("index violation")
	err := Wrap(cause, CodeInternal, "insert failed", http.StatusInternalServerError)

	msg := err.Error()
	if !strings.Contains(msg, CodeInternal) {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "index violation") {
		t.Errorf("expected cause in message, got %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"forbidden", Forbidden("not the item owner"), CodeForbidden, http.StatusForbidden},
		{"item unavailable", ItemUnavailable("item-1"), CodeItemUnavailable, http.StatusBadRequest},
		{"already approved", AlreadyApproved("bkg-1"), CodeAlreadyApproved, http.StatusBadRequest},
		{"unsupported condition", UnsupportedCondition("SOMETIMES"), CodeUnsupportedCondition, http.StatusBadRequest},
		{"duplicate email", DuplicateEmail("a@b.c"), CodeDuplicateEmail, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestUnsupportedCondition_MessageEchoesKeyword(t *testing.T) {
	err := UnsupportedCondition("UNSUPPORTED_STATUS")
	if err.Message != "Unknown state: UNSUPPORTED_STATUS" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAsAppError_WrapsUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	appErr := AsAppError(plain)
	if appErr.Code != CodeInternal {
		t.Errorf("expected internal code, got %s", appErr.Code)
	}
	if !errors.Is(appErr, plain) {
		t.Error("expected original error preserved")
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(DuplicateEmail("x@y.z"), CodeDuplicateEmail) {
		t.Error("expected IsCode to match")
	}
	if IsCode(errors.New("plain"), CodeDuplicateEmail) {
		t.Error("plain errors must not match")
	}
}
