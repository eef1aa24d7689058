package repository

import (
	"reflect"
	"testing"
	"time"

	"sharely/internal/bookings/query"
	"sharely/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSpecFilter_CompilesConditions(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		condition query.Condition
		want      bson.M
	}{
		{
			"ALL compiles to an empty filter",
			query.ConditionAll,
			bson.M{},
		},
		{
			"CURRENT brackets now",
			query.ConditionCurrent,
			bson.M{
				"start": bson.M{"$lt": now},
				"end":   bson.M{"$gte": now},
			},
		},
		{
			"PAST ended strictly before now",
			query.ConditionPast,
			bson.M{"end": bson.M{"$lt": now}},
		},
		{
			"FUTURE starts strictly after now",
			query.ConditionFuture,
			bson.M{"start": bson.M{"$gt": now}},
		},
		{
			"WAITING filters status only",
			query.ConditionWaiting,
			bson.M{"status": model.StatusWaiting},
		},
		{
			"REJECTED filters status only",
			query.ConditionRejected,
			bson.M{"status": model.StatusRejected},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := specFilter(query.ForCondition(tt.condition, now))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected filter %v, got %v", tt.want, got)
			}
		})
	}
}

// A booking ending exactly at now must match CURRENT ($gte) and miss
// PAST ($lt).
func TestSpecFilter_EndBoundaryOperators(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	current := specFilter(query.ForCondition(query.ConditionCurrent, now))
	end, ok := current["end"].(bson.M)
	if !ok {
		t.Fatalf("expected end clause in CURRENT filter, got %v", current)
	}
	if _, ok := end["$gte"]; !ok {
		t.Error("CURRENT must use $gte on end")
	}
	if _, ok := end["$lt"]; ok {
		t.Error("CURRENT must not exclude bookings ending at now")
	}

	past := specFilter(query.ForCondition(query.ConditionPast, now))
	end, ok = past["end"].(bson.M)
	if !ok {
		t.Fatalf("expected end clause in PAST filter, got %v", past)
	}
	if _, ok := end["$lt"]; !ok {
		t.Error("PAST must use $lt on end")
	}
}
