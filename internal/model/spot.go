package model

import (
	"time"

	"github.com/google/uuid"
)

type Spot struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OwnerID     uuid.UUID `db:"owner_id" json:"ownerId"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	State       string    `db:"state" json:"state"`
	Country     string    `db:"country" json:"country"`
	Lat         *float64  `db:"lat" json:"lat"`
	Lng         *float64  `db:"lng" json:"lng"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type SpotImage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SpotID    uuid.UUID `db:"spot_id" json:"-"`
	URL       string    `db:"url" json:"url"`
	Preview   bool      `db:"preview" json:"preview"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// SpotSummary is the listing view of a spot.
type SpotSummary struct {
	Spot
	AvgRating    float64 `json:"avgRating"`
	PreviewImage *string `json:"previewImage"`
}

// SpotDetails is the single-spot view, carrying the full image collection.
type SpotDetails struct {
	Spot
	NumReviews    int          `json:"numReviews"`
	AvgStarRating float64      `json:"avgStarRating"`
	SpotImages    []SpotImage  `json:"SpotImages"`
	Owner         *UserSummary `json:"Owner"`
}

// ReviewSpot is the spot projection nested inside review listings.
type ReviewSpot struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Lat          *float64  `json:"lat"`
	Lng          *float64  `json:"lng"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	PreviewImage *string   `json:"previewImage"`
}
