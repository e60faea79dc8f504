package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"lodging-service/internal/model"
	"lodging-service/internal/repository"

	"github.com/google/uuid"
)

type store struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*model.User
	spots        map[uuid.UUID]*model.Spot
	spotImages   []model.SpotImage
	reviews      map[uuid.UUID]*model.Review
	reviewImages []model.ReviewImage
	inserts      int
}

func newStore() *store {
	return &store{
		users:   map[uuid.UUID]*model.User{},
		spots:   map[uuid.UUID]*model.Spot{},
		reviews: map[uuid.UUID]*model.Review{},
	}
}

func (s *store) addUser(first, last string) *model.User {
	u := &model.User{ID: uuid.New(), FirstName: first, LastName: last, Email: first + "@test.io", Username: first}
	s.users[u.ID] = u
	return u
}

func (s *store) addSpot(ownerID uuid.UUID, name string) *model.Spot {
	sp := &model.Spot{ID: uuid.New(), OwnerID: ownerID, Name: name, Price: 100, CreatedAt: time.Now()}
	s.spots[sp.ID] = sp
	return sp
}

func (s *store) addReview(userID, spotID uuid.UUID, stars int) *model.Review {
	r := &model.Review{ID: uuid.New(), UserID: userID, SpotID: spotID, Review: "ok", Stars: stars}
	s.reviews[r.ID] = r
	return r
}

type fakeUserRepo struct{ *store }

func (f fakeUserRepo) Create(_ context.Context, u *model.User) (uuid.UUID, error) {
	f.inserts++
	u.ID = uuid.New()
	f.users[u.ID] = u
	return u.ID, nil
}

func (f fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f fakeUserRepo) FindByCredential(_ context.Context, credential string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == credential || u.Username == credential {
			return u, nil
		}
	}
	return nil, nil
}

func (f fakeUserRepo) FindConflicts(_ context.Context, email, username string) (*repository.UserConflicts, error) {
	c := &repository.UserConflicts{}
	for _, u := range f.users {
		c.EmailTaken = c.EmailTaken || u.Email == email
		c.UsernameTaken = c.UsernameTaken || u.Username == username
	}
	return c, nil
}

type fakeSpotRepo struct{ *store }

func (f fakeSpotRepo) Create(_ context.Context, sp *model.Spot) (*model.Spot, error) {
	f.inserts++
	sp.ID = uuid.New()
	sp.CreatedAt = time.Now()
	sp.UpdatedAt = sp.CreatedAt
	cp := *sp
	f.spots[sp.ID] = &cp
	return sp, nil
}

func (f fakeSpotRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Spot, error) {
	sp, ok := f.spots[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (f fakeSpotRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Spot, error) {
	out := []model.Spot{}
	for _, id := range ids {
		if sp, ok := f.spots[id]; ok {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (f fakeSpotRepo) List(_ context.Context, limit, offset int) ([]model.Spot, error) {
	out := []model.Spot{}
	for _, sp := range f.spots {
		out = append(out, *sp)
	}
	if offset >= len(out) {
		return []model.Spot{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeSpotRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Spot, error) {
	out := []model.Spot{}
	for _, sp := range f.spots {
		if sp.OwnerID == ownerID {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (f fakeSpotRepo) Update(_ context.Context, sp *model.Spot) error {
	if _, ok := f.spots[sp.ID]; !ok {
		return sql.ErrNoRows
	}
	sp.UpdatedAt = time.Now()
	cp := *sp
	f.spots[sp.ID] = &cp
	return nil
}

func (f fakeSpotRepo) Delete(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if _, ok := f.spots[id]; !ok {
		return nil, sql.ErrNoRows
	}
	delete(f.spots, id)
	reviewIDs := []uuid.UUID{}
	for reviewID, r := range f.reviews {
		if r.SpotID == id {
			reviewIDs = append(reviewIDs, reviewID)
			delete(f.reviews, reviewID)
		}
	}
	return reviewIDs, nil
}

func (f fakeSpotRepo) OwnerOf(_ context.Context, id uuid.UUID) (uuid.NullUUID, error) {
	sp, ok := f.spots[id]
	if !ok {
		return uuid.NullUUID{}, sql.ErrNoRows
	}
	return uuid.NullUUID{UUID: sp.OwnerID, Valid: true}, nil
}

func (f fakeSpotRepo) FindOwnerSummary(_ context.Context, ownerID uuid.UUID) (*model.UserSummary, error) {
	u, ok := f.users[ownerID]
	if !ok {
		return nil, nil
	}
	return &model.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}, nil
}

type fakeSpotImageRepo struct{ *store }

func (f fakeSpotImageRepo) Create(_ context.Context, img *model.SpotImage) error {
	img.ID = uuid.New()
	f.spotImages = append(f.spotImages, *img)
	return nil
}

func (f fakeSpotImageRepo) ListBySpot(_ context.Context, spotID uuid.UUID) ([]model.SpotImage, error) {
	return f.ListBySpotIDs(context.Background(), []uuid.UUID{spotID})
}

func (f fakeSpotImageRepo) ListBySpotIDs(_ context.Context, ids []uuid.UUID) ([]model.SpotImage, error) {
	out := []model.SpotImage{}
	for _, img := range f.spotImages {
		for _, id := range ids {
			if img.SpotID == id {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (f fakeSpotImageRepo) OwnerOf(_ context.Context, id uuid.UUID) (uuid.NullUUID, error) {
	for _, img := range f.spotImages {
		if img.ID == id {
			sp, ok := f.spots[img.SpotID]
			if !ok {
				return uuid.NullUUID{}, nil
			}
			return uuid.NullUUID{UUID: sp.OwnerID, Valid: true}, nil
		}
	}
	return uuid.NullUUID{}, sql.ErrNoRows
}

func (f fakeSpotImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, img := range f.spotImages {
		if img.ID == id {
			f.spotImages = append(f.spotImages[:i], f.spotImages[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeReviewRepo struct{ *store }

func (f fakeReviewRepo) Create(_ context.Context, r *model.Review) (*model.Review, error) {
	r.ID = uuid.New()
	cp := *r
	f.reviews[r.ID] = &cp
	return r, nil
}

func (f fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f fakeReviewRepo) Update(_ context.Context, r *model.Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *r
	f.reviews[r.ID] = &cp
	return nil
}

func (f fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.reviews, id)
	return nil
}

func (f fakeReviewRepo) AuthorOf(_ context.Context, id uuid.UUID) (uuid.NullUUID, error) {
	r, ok := f.reviews[id]
	if !ok {
		return uuid.NullUUID{}, sql.ErrNoRows
	}
	return uuid.NullUUID{UUID: r.UserID, Valid: true}, nil
}

func (f fakeReviewRepo) CheckIfUserReviewedSpot(_ context.Context, userID, spotID uuid.UUID) (bool, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.SpotID == spotID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeReviewRepo) withAuthor(r *model.Review) repository.ReviewWithAuthor {
	out := repository.ReviewWithAuthor{Review: *r}
	if u, ok := f.users[r.UserID]; ok {
		out.AuthorFirstName = u.FirstName
		out.AuthorLastName = u.LastName
	}
	return out
}

func (f fakeReviewRepo) ListBySpot(_ context.Context, spotID uuid.UUID) ([]repository.ReviewWithAuthor, error) {
	out := []repository.ReviewWithAuthor{}
	for _, r := range f.reviews {
		if r.SpotID == spotID {
			out = append(out, f.withAuthor(r))
		}
	}
	return out, nil
}

func (f fakeReviewRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.ReviewWithAuthor, error) {
	out := []repository.ReviewWithAuthor{}
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, f.withAuthor(r))
		}
	}
	return out, nil
}

func (f fakeReviewRepo) RatingsBySpotIDs(_ context.Context, ids []uuid.UUID) ([]repository.SpotRating, error) {
	out := []repository.SpotRating{}
	for _, r := range f.reviews {
		for _, id := range ids {
			if r.SpotID == id {
				out = append(out, repository.SpotRating{SpotID: id, Stars: r.Stars})
			}
		}
	}
	return out, nil
}

type fakeReviewImageRepo struct{ *store }

func (f fakeReviewImageRepo) CreateCapped(_ context.Context, img *model.ReviewImage, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reviews[img.ReviewID]; !ok {
		return sql.ErrNoRows
	}
	count := 0
	for _, existing := range f.reviewImages {
		if existing.ReviewID == img.ReviewID {
			count++
		}
	}
	if count >= limit {
		return repository.ErrCapacityReached
	}
	img.ID = uuid.New()
	f.reviewImages = append(f.reviewImages, *img)
	return nil
}

func (f fakeReviewImageRepo) CountByReview(_ context.Context, reviewID uuid.UUID) (int, error) {
	count := 0
	for _, img := range f.reviewImages {
		if img.ReviewID == reviewID {
			count++
		}
	}
	return count, nil
}

func (f fakeReviewImageRepo) ListByReviewIDs(_ context.Context, ids []uuid.UUID) ([]model.ReviewImage, error) {
	out := []model.ReviewImage{}
	for _, img := range f.reviewImages {
		for _, id := range ids {
			if img.ReviewID == id {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (f fakeReviewImageRepo) AuthorOf(_ context.Context, id uuid.UUID) (uuid.NullUUID, error) {
	for _, img := range f.reviewImages {
		if img.ID == id {
			r, ok := f.reviews[img.ReviewID]
			if !ok {
				return uuid.NullUUID{}, nil
			}
			return uuid.NullUUID{UUID: r.UserID, Valid: true}, nil
		}
	}
	return uuid.NullUUID{}, sql.ErrNoRows
}

func (f fakeReviewImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, img := range f.reviewImages {
		if img.ID == id {
			f.reviewImages = append(f.reviewImages[:i], f.reviewImages[i+1:]...)
			return nil
		}
	}
	return nil
}

type recordingPublisher struct {
	spotsCreated   []uuid.UUID
	spotsDeleted   []uuid.UUID
	deletedReviews map[uuid.UUID][]uuid.UUID
	reviewsCreated []uuid.UUID
	reviewsDeleted []uuid.UUID
}

func (p *recordingPublisher) PublishSpotCreated(sp *model.Spot) error {
	p.spotsCreated = append(p.spotsCreated, sp.ID)
	return nil
}

func (p *recordingPublisher) PublishSpotDeleted(spotID, _ uuid.UUID, reviewIDs []uuid.UUID) error {
	p.spotsDeleted = append(p.spotsDeleted, spotID)
	if p.deletedReviews == nil {
		p.deletedReviews = map[uuid.UUID][]uuid.UUID{}
	}
	p.deletedReviews[spotID] = reviewIDs
	return nil
}

func (p *recordingPublisher) PublishReviewCreated(r *model.Review) error {
	p.reviewsCreated = append(p.reviewsCreated, r.ID)
	return nil
}

func (p *recordingPublisher) PublishReviewDeleted(r *model.Review) error {
	p.reviewsDeleted = append(p.reviewsDeleted, r.ID)
	return nil
}

type fakePresigner struct {
	keys []string
}

func (p *fakePresigner) PresignUpload(_ context.Context, key, _ string) (string, string, error) {
	p.keys = append(p.keys, key)
	return "https://bucket.test/" + key + "?X-Amz-Signature=abc", "https://bucket.test/" + key, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(u *model.User) (string, error) {
	return "token-" + u.ID.String(), nil
}

func newSpotService(s *store, pub *recordingPublisher, presigner UploadPresigner) SpotService {
	return NewSpotService(fakeSpotRepo{s}, fakeSpotImageRepo{s}, fakeReviewRepo{s}, pub, presigner)
}

func newReviewService(s *store, pub *recordingPublisher, presigner UploadPresigner) ReviewService {
	return NewReviewService(fakeReviewRepo{s}, fakeReviewImageRepo{s}, fakeSpotRepo{s}, fakeSpotImageRepo{s}, pub, presigner)
}
