// Package query turns listing parameters into a storage-neutral filter spec.
// The spec is compiled to a Mongo filter by the repository, keeping the
// condition semantics testable without a database.
package query

import (
	"strings"
	"time"

	apperrors "sharely/pkg/errors"
	"sharely/pkg/model"
)

type Condition string

const (
	ConditionAll      Condition = "ALL"
	ConditionCurrent  Condition = "CURRENT"
	ConditionPast     Condition = "PAST"
	ConditionFuture   Condition = "FUTURE"
	ConditionWaiting  Condition = "WAITING"
	ConditionRejected Condition = "REJECTED"
)

type Role string

const (
	RoleBooker Role = "BOOKER"
	RoleOwner  Role = "OWNER"
)

// ParseCondition is case-insensitive; blank means ALL. Anything else is the
// caller's mistake and keeps its original spelling in the error.
func ParseCondition(raw string) (Condition, error) {
	if strings.TrimSpace(raw) == "" {
		return ConditionAll, nil
	}

	switch Condition(strings.ToUpper(strings.TrimSpace(raw))) {
	case ConditionAll:
		return ConditionAll, nil
	case ConditionCurrent:
		return ConditionCurrent, nil
	case ConditionPast:
		return ConditionPast, nil
	case ConditionFuture:
		return ConditionFuture, nil
	case ConditionWaiting:
		return ConditionWaiting, nil
	case ConditionRejected:
		return ConditionRejected, nil
	default:
		return "", apperrors.UnsupportedCondition(raw)
	}
}

// Spec is the compiled time/status predicate for a listing query. Zero-value
// time fields and an empty status mean "no constraint".
type Spec struct {
	StartBefore  time.Time
	StartAfter   time.Time
	EndBefore    time.Time
	EndAtOrAfter time.Time
	Status       model.BookingStatus
}

// ForCondition maps a condition to its predicate at the given instant.
//
//	CURRENT: start < now AND end >= now
//	PAST:    end < now
//	FUTURE:  start > now
//	WAITING/REJECTED: status only
func ForCondition(c Condition, now time.Time) Spec {
	switch c {
	case ConditionCurrent:
		return Spec{StartBefore: now, EndAtOrAfter: now}
	case ConditionPast:
		return Spec{EndBefore: now}
	case ConditionFuture:
		return Spec{StartAfter: now}
	case ConditionWaiting:
		return Spec{Status: model.StatusWaiting}
	case ConditionRejected:
		return Spec{Status: model.StatusRejected}
	default:
		return Spec{}
	}
}

// Page converts the from/size paging parameters to a skip count. The page
// index truncates: from=5, size=10 lands on page 0. Callers rely on this.
func Page(from, size int) (skip int64) {
	page := from / size
	return int64(page * size)
}
