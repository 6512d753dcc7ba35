package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"farmdirect/internal/domain"
	"farmdirect/internal/grading"
	"farmdirect/internal/security"
	"farmdirect/internal/service"
)

var farmerIdent = security.Identity{
	Email:  "farmer@example.com",
	Role:   domain.RoleFarmer,
	UserID: "farmer-uuid",
}

func validListingInput() service.ListingCreateInput {
	return service.ListingCreateInput{
		Title:        "Fresh Tomatoes",
		Quantity:     20,
		QuantityUnit: "quintal",
		HarvestDate:  "2026-08-20",
		Location:     "Nashik",
		ImageURLs:    []string{"http://img/1.jpg", "http://img/2.jpg", "http://img/3.jpg"},
	}
}

func TestCreateListing(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo,
			&fakeFetcher{data: []byte("jpeg bytes")},
			&fakeDetector{confidences: []float64{0.9, 0.95}},
			grading.NewGrader(),
		)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.OwnerEmail == farmerIdent.Email &&
				l.Status == domain.ListingStatusActive &&
				l.Grade == "A" &&
				l.PriceRange != "" &&
				l.Analysis != "" &&
				l.UUID != ""
		})).Return(nil)

		listing, err := svc.Create(context.Background(), validListingInput(), farmerIdent)
		require.NoError(t, err)
		require.NotNil(t, listing)
		assert.Equal(t, "A", listing.Grade)
		repo.AssertExpectations(t)
	})

	t.Run("WrongRole", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo, &fakeFetcher{}, &fakeDetector{}, grading.NewGrader())

		buyer := security.Identity{Email: "buyer@example.com", Role: domain.RoleBuyer, UserID: "b"}
		listing, err := svc.Create(context.Background(), validListingInput(), buyer)
		assert.Nil(t, listing)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("TooFewImages", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo, &fakeFetcher{}, &fakeDetector{}, grading.NewGrader())

		in := validListingInput()
		in.ImageURLs = in.ImageURLs[:2]
		listing, err := svc.Create(context.Background(), in, farmerIdent)
		assert.Nil(t, listing)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "Please upload at least 3 images.", domain.ErrMessage(err))
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo, &fakeFetcher{}, &fakeDetector{}, grading.NewGrader())

		in := validListingInput()
		in.Quantity = 0
		listing, err := svc.Create(context.Background(), in, farmerIdent)
		assert.Nil(t, listing)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("ImageFetchFailure", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo,
			&fakeFetcher{err: errors.New("connection refused")},
			&fakeDetector{},
			grading.NewGrader(),
		)

		listing, err := svc.Create(context.Background(), validListingInput(), farmerIdent)
		assert.Nil(t, listing)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DetectorFailureDegradesToGradeB", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo,
			&fakeFetcher{data: []byte("jpeg bytes")},
			&fakeDetector{err: errors.New("model not loaded")},
			grading.NewGrader(),
		)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.Grade == "B"
		})).Return(nil)

		listing, err := svc.Create(context.Background(), validListingInput(), farmerIdent)
		require.NoError(t, err)
		assert.Equal(t, "B", listing.Grade)
		assert.Contains(t, listing.Analysis, "Manual review recommended.")
	})
}

func TestListActive(t *testing.T) {
	repo := new(MockListingRepo)
	svc := service.NewListingService(repo, &fakeFetcher{}, &fakeDetector{}, grading.NewGrader())

	stored := []*domain.Listing{{UUID: "l1"}, {UUID: "l2"}}
	repo.On("ListActive", mock.Anything).Return(stored, nil)

	got, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}
