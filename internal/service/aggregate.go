package service

import (
	"math"

	"lodging-service/internal/model"
)

// AverageRating is the mean star rating rounded to one decimal, or 0 without reviews.
func AverageRating(stars []int) float64 {
	if len(stars) == 0 {
		return 0
	}

	total := 0
	for _, s := range stars {
		total += s
	}

	return math.Round(float64(total)/float64(len(stars))*10) / 10
}

// PreviewImage picks the first image flagged as preview, falling back to the first image.
// Images must be in insertion order.
func PreviewImage(images []model.SpotImage) *string {
	if len(images) == 0 {
		return nil
	}

	for _, img := range images {
		if img.Preview {
			url := img.URL
			return &url
		}
	}

	url := images[0].URL
	return &url
}
