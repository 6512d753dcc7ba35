package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"farmdirect/internal/domain"
	"farmdirect/internal/grading"
	"farmdirect/internal/security"
)

// ListingService creates and lists produce listings. Creation grades the
// first image synchronously on the request path before anything is written.
type ListingService struct {
	listings domain.ListingRepository
	fetcher  grading.Fetcher
	detector grading.Detector
	grader   *grading.Grader
}

func NewListingService(
	listings domain.ListingRepository,
	fetcher grading.Fetcher,
	detector grading.Detector,
	grader *grading.Grader,
) *ListingService {
	return &ListingService{
		listings: listings,
		fetcher:  fetcher,
		detector: detector,
		grader:   grader,
	}
}

type ListingCreateInput struct {
	Title        string
	Quantity     float64
	QuantityUnit string
	HarvestDate  string
	Location     string
	ImageURLs    []string
}

// Create validates, grades and persists a listing. Each check is a hard
// gate: any failure aborts with no partial write. An unreachable image is a
// dependency failure, not a validation one; a failing detector is absorbed
// by the grader into a degraded grade.
func (s *ListingService) Create(ctx context.Context, in ListingCreateInput, caller security.Identity) (*domain.Listing, error) {
	if caller.Role != domain.RoleFarmer {
		return nil, domain.E(domain.ErrForbidden, "Only farmers can create listings.")
	}
	if len(in.ImageURLs) < 3 {
		return nil, domain.EStatus(domain.ErrValidation, 422, "Please upload at least 3 images.")
	}
	if in.Quantity <= 0 {
		return nil, domain.EStatus(domain.ErrValidation, 422, "Quantity must be a positive number.")
	}

	image, err := s.fetcher.Fetch(ctx, in.ImageURLs[0])
	if err != nil {
		return nil, domain.E(domain.ErrUnavailable, fmt.Sprintf("The AI grading service failed. Error: %v", err))
	}
	result := s.grader.GradeImage(ctx, s.detector, image)

	listing := &domain.Listing{
		UUID:         uuid.NewString(),
		OwnerEmail:   caller.Email,
		Title:        in.Title,
		Quantity:     in.Quantity,
		QuantityUnit: in.QuantityUnit,
		HarvestDate:  in.HarvestDate,
		Location:     in.Location,
		ImageURLs:    in.ImageURLs,
		Grade:        result.Grade,
		PriceRange:   result.PriceRange,
		Analysis:     result.Analysis,
		Status:       domain.ListingStatusActive,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("save listing: %w", err)
	}
	return listing, nil
}

// ListActive returns all active listings, readable by any authenticated user.
func (s *ListingService) ListActive(ctx context.Context) ([]*domain.Listing, error) {
	return s.listings.ListActive(ctx)
}
