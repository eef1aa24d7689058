package query

import (
	"testing"
	"time"

	apperrors "sharely/pkg/errors"
	"sharely/pkg/model"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Condition
		wantErr bool
	}{
		{"blank defaults to ALL", "", ConditionAll, false},
		{"whitespace defaults to ALL", "   ", ConditionAll, false},
		{"lowercase accepted", "current", ConditionCurrent, false},
		{"mixed case accepted", "Past", ConditionPast, false},
		{"future", "FUTURE", ConditionFuture, false},
		{"waiting", "WAITING", ConditionWaiting, false},
		{"rejected", "REJECTED", ConditionRejected, false},
		{"unknown rejected", "SOMETIMES", "", true},
		{"approved is not a condition", "APPROVED", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.raw)
			if tt.wantErr {
				if !apperrors.IsCode(err, apperrors.CodeUnsupportedCondition) {
					t.Fatalf("expected code %s, got %v", apperrors.CodeUnsupportedCondition, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseCondition_ErrorKeepsOriginalSpelling(t *testing.T) {
	_, err := ParseCondition("bogus")
	appErr := apperrors.AsAppError(err)
	if appErr.Message != "Unknown state: bogus" {
		t.Errorf("expected original spelling in message, got %q", appErr.Message)
	}
}

func TestForCondition(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		condition Condition
		want      Spec
	}{
		{"ALL is unconstrained", ConditionAll, Spec{}},
		{"CURRENT brackets now", ConditionCurrent, Spec{StartBefore: now, EndAtOrAfter: now}},
		{"PAST ended before now", ConditionPast, Spec{EndBefore: now}},
		{"FUTURE starts after now", ConditionFuture, Spec{StartAfter: now}},
		{"WAITING filters status only", ConditionWaiting, Spec{Status: model.StatusWaiting}},
		{"REJECTED filters status only", ConditionRejected, Spec{Status: model.StatusRejected}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForCondition(tt.condition, now)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

// A booking ending exactly now is still CURRENT, not PAST.
func TestForCondition_BoundaryAtNow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	current := ForCondition(ConditionCurrent, now)
	if !current.EndAtOrAfter.Equal(now) {
		t.Error("CURRENT must include bookings ending exactly at now")
	}

	past := ForCondition(ConditionPast, now)
	if !past.EndBefore.Equal(now) {
		t.Error("PAST must exclude bookings ending exactly at now")
	}
}

func TestPage_TruncatesToPageBoundary(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		size     int
		wantSkip int64
	}{
		{"first page", 0, 10, 0},
		{"mid-page from lands on page start", 5, 10, 0},
		{"exact page boundary", 10, 10, 10},
		{"second page offset", 15, 10, 10},
		{"size one passes through", 7, 1, 7},
		{"large from", 95, 20, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Page(tt.from, tt.size); got != tt.wantSkip {
				t.Errorf("Page(%d, %d) = %d, want %d", tt.from, tt.size, got, tt.wantSkip)
			}
		})
	}
}
