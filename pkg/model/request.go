package model

import "time"

// ItemRequest records a "I need an item like X" wish. Read-only after
// creation; items created in response carry its id in their RequestID field.
type ItemRequest struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Description string    `json:"description" bson:"description" validate:"required,min=1,max=500"`
	RequesterID string    `json:"requester_id" bson:"requester_id" validate:"required,mongodb"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ItemRequestDetail is the read model: the request plus the catalog items
// that were listed in response to it.
type ItemRequestDetail struct {
	ItemRequest
	Items []*Item `json:"items"`
}
