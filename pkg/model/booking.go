package model

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"

	// StatusCanceled is part of the stored enum but no exposed operation
	// produces it.
	StatusCanceled BookingStatus = "CANCELED"
)

type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Start     time.Time     `json:"start" bson:"start" validate:"required"`
	End       time.Time     `json:"end" bson:"end" validate:"required,gtfield=Start"`
	ItemID    string        `json:"item_id" bson:"item_id" validate:"required,mongodb"`
	BookerID  string        `json:"booker_id" bson:"booker_id" validate:"required,mongodb"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=WAITING APPROVED REJECTED CANCELED"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}
