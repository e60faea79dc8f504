package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	SpotID    uuid.UUID `db:"spot_id" json:"spotId"`
	Review    string    `db:"review" json:"review"`
	Stars     int       `db:"stars" json:"stars"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type ReviewImage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ReviewID  uuid.UUID `db:"review_id" json:"-"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// ReviewDetails is a review with its author, images and, for the current-user view, its spot.
type ReviewDetails struct {
	Review
	User         *UserSummary  `json:"User"`
	Spot         *ReviewSpot   `json:"Spot,omitempty"`
	ReviewImages []ReviewImage `json:"ReviewImages"`
}
