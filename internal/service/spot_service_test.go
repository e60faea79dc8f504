package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lodging-service/internal/model"
	"lodging-service/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func validSpot() SpotInput {
	return SpotInput{
		Address:     "123 Disney Lane",
		City:        "San Francisco",
		State:       "California",
		Country:     "United States of America",
		Lat:         floatPtr(37.7645358),
		Lng:         floatPtr(-122.4730327),
		Name:        "App Academy",
		Description: "Place where web developers are created",
		Price:       floatPtr(123),
	}
}

func TestSpotService_CreateThenUpdate(t *testing.T) {
	s := newStore()
	owner := s.addUser("Demo", "User")
	pub := &recordingPublisher{}
	svc := newSpotService(s, pub, nil)

	created, err := svc.Create(context.Background(), owner.ID, validSpot())
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.Equal(t, []uuid.UUID{created.ID}, pub.spotsCreated)

	edit := validSpot()
	edit.Name = "Renamed"
	edit.Price = floatPtr(99.5)
	updated, err := svc.Update(context.Background(), created.ID, owner.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 99.5, updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestSpotService_CreateAggregatesFieldErrors(t *testing.T) {
	s := newStore()
	svc := newSpotService(s, &recordingPublisher{}, nil)

	input := SpotInput{Lat: floatPtr(100), Lng: floatPtr(-200), Name: strings.Repeat("x", 51), Price: floatPtr(-1)}
	_, err := svc.Create(context.Background(), uuid.New(), input)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"address":     "Street address is required",
		"city":        "City is required",
		"state":       "State is required",
		"country":     "Country is required",
		"lat":         "Latitude must be within -90 and 90",
		"lng":         "Longitude must be within -180 and 180",
		"name":        "Name must be less than 50 characters",
		"description": "Description is required",
		"price":       "Price per day must be a positive number",
	}, verr.Fields)
	assert.Zero(t, s.inserts)
}

func TestSpotService_PriceOutOfColumnRange(t *testing.T) {
	s := newStore()
	owner := s.addUser("Demo", "User")
	svc := newSpotService(s, &recordingPublisher{}, nil)

	input := validSpot()
	input.Price = floatPtr(1e8)
	_, err := svc.Create(context.Background(), owner.ID, input)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"price": "Price per day must be at most 99999999.99"}, verr.Fields)
	assert.Zero(t, s.inserts)

	input.Price = floatPtr(99999999.99)
	created, err := svc.Create(context.Background(), owner.ID, input)
	require.NoError(t, err)

	input.Price = floatPtr(123456789)
	_, err = svc.Update(context.Background(), created.ID, owner.ID, input)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "price")
}

func TestSpotService_UpdateChecksExistenceBeforeOwnership(t *testing.T) {
	s := newStore()
	svc := newSpotService(s, &recordingPublisher{}, nil)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), SpotInput{})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Spot couldn't be found", nf.Error())
}

func TestSpotService_NonOwnerLeavesSpotUnchanged(t *testing.T) {
	s := newStore()
	owner := s.addUser("Owner", "One")
	intruder := s.addUser("Other", "Two")
	spot := s.addSpot(owner.ID, "Original")
	pub := &recordingPublisher{}
	svc := newSpotService(s, pub, nil)

	_, err := svc.Update(context.Background(), spot.ID, intruder.ID, SpotInput{})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), spot.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddImage(context.Background(), spot.ID, intruder.ID, SpotImageInput{URL: "x.png"})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, "Original", s.spots[spot.ID].Name)
	assert.Empty(t, s.spotImages)
	assert.Empty(t, pub.spotsDeleted)
}

func TestSpotService_DeletePublishes(t *testing.T) {
	s := newStore()
	owner := s.addUser("Owner", "One")
	spot := s.addSpot(owner.ID, "Cabin")
	review := s.addReview(uuid.New(), spot.ID, 4)
	pub := &recordingPublisher{}
	svc := newSpotService(s, pub, nil)

	require.NoError(t, svc.Delete(context.Background(), spot.ID, owner.ID))
	assert.NotContains(t, s.spots, spot.ID)
	assert.Equal(t, []uuid.UUID{spot.ID}, pub.spotsDeleted)
	assert.Equal(t, []uuid.UUID{review.ID}, pub.deletedReviews[spot.ID])

	err := svc.Delete(context.Background(), spot.ID, owner.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSpotService_ListSummaries(t *testing.T) {
	s := newStore()
	owner := s.addUser("Owner", "One")
	reviewer := s.addUser("Rev", "Iewer")
	spot := s.addSpot(owner.ID, "Cabin")
	s.addReview(reviewer.ID, spot.ID, 3)
	s.addReview(owner.ID, spot.ID, 4)
	s.addReview(uuid.New(), spot.ID, 5)
	s.spotImages = []model.SpotImage{
		{ID: uuid.New(), SpotID: spot.ID, URL: "first.png"},
		{ID: uuid.New(), SpotID: spot.ID, URL: "preview.png", Preview: true},
	}
	bare := s.addSpot(owner.ID, "Tent")
	svc := newSpotService(s, &recordingPublisher{}, nil)

	spots, err := svc.ListByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, spots, 2)

	byID := map[uuid.UUID]model.SpotSummary{}
	for _, sp := range spots {
		byID[sp.ID] = sp
	}
	assert.Equal(t, 4.0, byID[spot.ID].AvgRating)
	require.NotNil(t, byID[spot.ID].PreviewImage)
	assert.Equal(t, "preview.png", *byID[spot.ID].PreviewImage)
	assert.Equal(t, 0.0, byID[bare.ID].AvgRating)
	assert.Nil(t, byID[bare.ID].PreviewImage)
}

func TestSpotService_ListRejectsBadPage(t *testing.T) {
	svc := newSpotService(newStore(), &recordingPublisher{}, nil)

	_, err := svc.List(context.Background(), SpotQuery{Page: 0, Size: 50})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "page")
	assert.Contains(t, verr.Fields, "size")
}

func TestSpotService_Details(t *testing.T) {
	s := newStore()
	owner := s.addUser("Owner", "One")
	spot := s.addSpot(owner.ID, "Cabin")
	s.addReview(uuid.New(), spot.ID, 2)
	s.addReview(uuid.New(), spot.ID, 5)
	s.spotImages = []model.SpotImage{{ID: uuid.New(), SpotID: spot.ID, URL: "a.png"}}
	svc := newSpotService(s, &recordingPublisher{}, nil)

	details, err := svc.Details(context.Background(), spot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, details.NumReviews)
	assert.Equal(t, 3.5, details.AvgStarRating)
	assert.Len(t, details.SpotImages, 1)
	require.NotNil(t, details.Owner)
	assert.Equal(t, "Owner", details.Owner.FirstName)

	_, err = svc.Details(context.Background(), uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSpotService_DeleteImage(t *testing.T) {
	s := newStore()
	owner := s.addUser("Owner", "One")
	spot := s.addSpot(owner.ID, "Cabin")
	svc := newSpotService(s, &recordingPublisher{}, nil)

	img, err := svc.AddImage(context.Background(), spot.ID, owner.ID, SpotImageInput{URL: "a.png", Preview: true})
	require.NoError(t, err)

	err = svc.DeleteImage(context.Background(), img.ID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeleteImage(context.Background(), img.ID, owner.ID))

	err = svc.DeleteImage(context.Background(), img.ID, owner.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Spot Image couldn't be found", nf.Error())
}

func TestSpotService_ImageUploadURL(t *testing.T) {
	s := newStore()
	owner := s.addUser("Owner", "One")
	spot := s.addSpot(owner.ID, "Cabin")

	_, err := newSpotService(s, &recordingPublisher{}, nil).
		ImageUploadURL(context.Background(), spot.ID, owner.ID, ImageUploadInput{ContentType: "image/png"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	presigner := &fakePresigner{}
	upload, err := newSpotService(s, &recordingPublisher{}, presigner).
		ImageUploadURL(context.Background(), spot.ID, owner.ID, ImageUploadInput{ContentType: "image/png"})
	require.NoError(t, err)
	require.Len(t, presigner.keys, 1)
	assert.True(t, strings.HasPrefix(presigner.keys[0], "spots/"+spot.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(presigner.keys[0], ".png"))
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature")
}
