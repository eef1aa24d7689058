package model

import "time"

// Item is a catalog entry offered for booking. Available is a pointer so a
// missing flag can be told apart from an explicit false at intake.
type Item struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string    `json:"description" bson:"description" validate:"required,min=1,max=500"`
	Available   *bool     `json:"available" bson:"available" validate:"required"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	RequestID   string    `json:"request_id,omitempty" bson:"request_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (i *Item) IsAvailable() bool {
	return i.Available != nil && *i.Available
}

type ItemPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	Available   *bool   `json:"available,omitempty"`
}
